package collmesh

import (
	"bytes"
	"encoding/binary"
	stdmath "math"

	"github.com/spaghettifunk/collmesh/engine/collector"
	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/math"
	"github.com/spaghettifunk/collmesh/engine/scene"
)

// Geometry returns the final vertex positions of a mesh.
type Geometry interface {
	Vertices(m *scene.Mesh) ([]math.Vec3, error)
}

// Blob holds the three chunk payloads of one export.
type Blob struct {
	Positions []byte
	Strings   []byte
	Index     []byte

	Entries     []IndexEntry
	VertexCount uint32
}

type serializer struct {
	geo         Geometry
	positions   bytes.Buffer
	strings     bytes.Buffer
	index       bytes.Buffer
	entries     []IndexEntry
	vertexCount uint32
}

// Serialize writes one representative of every mesh of collected, scanning
// objects in order.
//
// The first object found referencing a collected mesh writes it and removes
// it from collected; later objects referencing the same mesh are skipped, as
// are objects whose mesh was never collected. collected is consumed: on
// success it is empty. Meshes left over once objects is exhausted are
// reported as an *core.IntegrityError.
func Serialize(geo Geometry, collected collector.Set, objects []*scene.Object) (*Blob, error) {
	s := &serializer{geo: geo}
	want := len(collected)

	for _, obj := range objects {
		if obj.Kind != scene.ObjectKindMesh {
			continue
		}
		if _, ok := collected[obj.Mesh]; !ok {
			continue
		}
		delete(collected, obj.Mesh)

		core.LogDebug("Writing '%s' (object '%s')...", obj.Mesh.Name, obj.Name)
		if err := s.writeMesh(obj.Mesh); err != nil {
			return nil, err
		}
	}

	if len(collected) > 0 {
		return nil, &core.IntegrityError{Unmatched: collected.Names()}
	}

	blob := &Blob{
		Positions:   s.positions.Bytes(),
		Strings:     s.strings.Bytes(),
		Index:       s.index.Bytes(),
		Entries:     s.entries,
		VertexCount: s.vertexCount,
	}
	if err := blob.check(); err != nil {
		return nil, err
	}
	if len(blob.Entries) != want {
		return nil, core.Integrityf("wrote %d index entries for %d collected meshes", len(blob.Entries), want)
	}
	return blob, nil
}

func (s *serializer) writeMesh(m *scene.Mesh) error {
	vertices, err := s.geo.Vertices(m)
	if err != nil {
		return err
	}
	if uint64(s.vertexCount)+uint64(len(vertices)) > stdmath.MaxUint32 {
		return core.Integrityf("vertex count overflows uint32 at mesh '%s'", m.Name)
	}
	if uint64(s.strings.Len())+uint64(len(m.Name)) > stdmath.MaxUint32 {
		return core.Integrityf("strings chunk overflows uint32 at mesh '%s'", m.Name)
	}

	vertexBegin := s.vertexCount
	var p [VertexSize]byte
	for _, v := range vertices {
		byteOrder.PutUint32(p[0:], stdmath.Float32bits(v.X))
		byteOrder.PutUint32(p[4:], stdmath.Float32bits(v.Y))
		byteOrder.PutUint32(p[8:], stdmath.Float32bits(v.Z))
		s.positions.Write(p[:])
		s.vertexCount++
	}
	vertexEnd := s.vertexCount

	nameBegin := uint32(s.strings.Len())
	s.strings.WriteString(m.Name)
	nameEnd := uint32(s.strings.Len())

	e := IndexEntry{
		NameBegin:   nameBegin,
		NameEnd:     nameEnd,
		VertexBegin: vertexBegin,
		VertexEnd:   vertexEnd,
	}
	if err := binary.Write(&s.index, byteOrder, e); err != nil {
		return err
	}
	s.entries = append(s.entries, e)
	return nil
}

// check verifies the size invariants between counters and buffers.
func (b *Blob) check() error {
	if uint64(len(b.Positions)) != VertexSize*uint64(b.VertexCount) {
		return core.Integrityf("positions hold %d bytes for %d vertices", len(b.Positions), b.VertexCount)
	}
	if len(b.Index) != IndexEntrySize*len(b.Entries) {
		return core.Integrityf("index holds %d bytes for %d entries", len(b.Index), len(b.Entries))
	}
	return nil
}

// Size is the number of bytes WriteTo produces.
func (b *Blob) Size() int64 {
	return int64(3*ChunkHeaderSize + len(b.Positions) + len(b.Strings) + len(b.Index))
}
