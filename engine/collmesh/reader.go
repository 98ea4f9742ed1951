package collmesh

import (
	"bufio"
	"io"
	stdmath "math"
	"os"

	"github.com/pkg/errors"

	"github.com/spaghettifunk/collmesh/engine/core"
	"github.com/spaghettifunk/collmesh/engine/math"
)

// ErrCorrupt is returned for files whose chunks or index cannot be trusted.
var ErrCorrupt = errors.New("corrupt collmesh data")

// Mesh is one named mesh read back from a file.
type Mesh struct {
	Name     string
	Vertices []math.Vec3
	// ContainingRadius is the largest distance of a vertex from the origin.
	ContainingRadius float32
	Bounds           math.Extents3D
}

// File is a parsed collmesh file. Meshes keep the order of the index.
type File struct {
	Meshes   []*Mesh
	Entries  []IndexEntry
	Vertices []math.Vec3
	// Trailing is set when bytes follow the index chunk.
	Trailing bool

	byName map[string]*Mesh
}

// Lookup returns the mesh called name.
func (f *File) Lookup(name string) (*Mesh, error) {
	m, ok := f.byName[name]
	if !ok {
		return nil, errors.Errorf("collmesh: mesh with name '%s' not found", name)
	}
	return m, nil
}

// ReadFile opens and parses path.
func ReadFile(path string) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, &core.IOError{Op: "open", Path: path, Err: err}
	}
	defer fp.Close()

	f, err := Read(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "reading '%s'", path)
	}
	if f.Trailing {
		core.LogWarn("trailing data in collmesh file '%s'", path)
	}
	return f, nil
}

// Read parses the three chunks from r and validates the index against them.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)

	positions, err := readChunk(br, MagicPositions)
	if err != nil {
		return nil, err
	}
	if len(positions)%VertexSize != 0 {
		return nil, errors.Wrapf(ErrCorrupt, "positions chunk of %d bytes is not a whole number of vertices", len(positions))
	}
	names, err := readChunk(br, MagicStrings)
	if err != nil {
		return nil, err
	}
	index, err := readChunk(br, MagicIndex)
	if err != nil {
		return nil, err
	}
	if len(index)%IndexEntrySize != 0 {
		return nil, errors.Wrapf(ErrCorrupt, "index chunk of %d bytes is not a whole number of entries", len(index))
	}

	f := &File{
		Vertices: decodeVertices(positions),
		Entries:  make([]IndexEntry, len(index)/IndexEntrySize),
		byName:   make(map[string]*Mesh, len(index)/IndexEntrySize),
	}
	for i := range f.Entries {
		rec := index[i*IndexEntrySize:]
		f.Entries[i] = IndexEntry{
			NameBegin:   byteOrder.Uint32(rec[0:]),
			NameEnd:     byteOrder.Uint32(rec[4:]),
			VertexBegin: byteOrder.Uint32(rec[8:]),
			VertexEnd:   byteOrder.Uint32(rec[12:]),
		}
	}

	if _, err := br.Peek(1); err == nil {
		f.Trailing = true
	}

	for _, e := range f.Entries {
		if !(e.NameBegin <= e.NameEnd && int(e.NameEnd) <= len(names)) {
			return nil, errors.Wrapf(ErrCorrupt, "invalid name indices [%d, %d) in index", e.NameBegin, e.NameEnd)
		}
		if !(e.VertexBegin <= e.VertexEnd && int(e.VertexEnd) <= len(f.Vertices)) {
			return nil, errors.Wrapf(ErrCorrupt, "invalid vertex indices [%d, %d) in index", e.VertexBegin, e.VertexEnd)
		}
		m := newMesh(string(names[e.NameBegin:e.NameEnd]), f.Vertices[e.VertexBegin:e.VertexEnd])
		if _, dup := f.byName[m.Name]; dup {
			return nil, errors.Wrapf(ErrCorrupt, "mesh with duplicated name '%s'", m.Name)
		}
		f.byName[m.Name] = m
		f.Meshes = append(f.Meshes, m)
	}
	return f, nil
}

// readChunk reads one chunk and checks its magic. The payload length is
// checked against the bytes actually present before it is trusted.
func readChunk(r io.Reader, magic Magic) ([]byte, error) {
	var hdr [ChunkHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "reading %s chunk header: %v", magic, err)
	}
	if got := (Magic{hdr[0], hdr[1], hdr[2], hdr[3]}); got != magic {
		return nil, errors.Wrapf(ErrCorrupt, "expected %q chunk, found %q", magic.String(), got.String())
	}
	size := int64(byteOrder.Uint32(hdr[4:]))
	payload, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "reading %s chunk: %v", magic, err)
	}
	if int64(len(payload)) != size {
		return nil, errors.Wrapf(ErrCorrupt, "%s chunk truncated: %d of %d bytes", magic, len(payload), size)
	}
	return payload, nil
}

func decodeVertices(b []byte) []math.Vec3 {
	vs := make([]math.Vec3, len(b)/VertexSize)
	for i := range vs {
		p := b[i*VertexSize:]
		vs[i] = math.Vec3{
			X: stdmath.Float32frombits(byteOrder.Uint32(p[0:])),
			Y: stdmath.Float32frombits(byteOrder.Uint32(p[4:])),
			Z: stdmath.Float32frombits(byteOrder.Uint32(p[8:])),
		}
	}
	return vs
}

func newMesh(name string, vertices []math.Vec3) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: append([]math.Vec3(nil), vertices...),
		Bounds:   math.NewExtents3D(),
	}
	for _, v := range m.Vertices {
		m.Bounds.Expand(v)
		if l := v.Length(); l > m.ContainingRadius {
			m.ContainingRadius = l
		}
	}
	return m
}
