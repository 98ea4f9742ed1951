package scene

import "fmt"

// identifiers hands out group IDs. Released IDs are reused first.
type identifiers struct {
	owners []*Group
}

func (ids *identifiers) acquire(owner *Group) GroupID {
	for i, o := range ids.owners {
		// Existing free spot. Take it.
		if o == nil {
			ids.owners[i] = owner
			return GroupID(i)
		}
	}
	ids.owners = append(ids.owners, owner)
	return GroupID(len(ids.owners) - 1)
}

func (ids *identifiers) release(id GroupID) error {
	if int(id) >= len(ids.owners) {
		return fmt.Errorf("group id '%d' out of range (max=%d). Nothing was done", id, len(ids.owners))
	}
	ids.owners[id] = nil
	return nil
}

func (ids *identifiers) lookup(id GroupID) *Group {
	if int(id) >= len(ids.owners) {
		return nil
	}
	return ids.owners[id]
}
