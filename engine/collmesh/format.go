// Package collmesh implements the chunked "collmesh" binary: vertex positions,
// mesh names and an index of per-mesh ranges into both.
//
// Every chunk is a 4 byte magic, a little-endian uint32 payload length and the
// payload. A file is exactly three chunks, in this order:
//
//	p...  float32 x, y, z per vertex
//	str0  concatenated UTF-8 mesh names
//	idxA  uint32 name_begin, name_end, vertex_begin, vertex_end per mesh
package collmesh

import "encoding/binary"

// Magic is a chunk type tag.
type Magic [4]byte

func (m Magic) String() string {
	return string(m[:])
}

var (
	MagicPositions = Magic{'p', '.', '.', '.'}
	MagicStrings   = Magic{'s', 't', 'r', '0'}
	MagicIndex     = Magic{'i', 'd', 'x', 'A'}
)

// ChunkOrder is the fixed order of the chunks in a file.
var ChunkOrder = [...]Magic{MagicPositions, MagicStrings, MagicIndex}

const (
	// ChunkHeaderSize is the magic plus the length field.
	ChunkHeaderSize = 8
	// VertexSize is three float32.
	VertexSize = 12
	// IndexEntrySize is four uint32.
	IndexEntrySize = 16
)

var byteOrder = binary.LittleEndian

// IndexEntry locates one mesh: [NameBegin, NameEnd) in the strings chunk and
// [VertexBegin, VertexEnd) in units of vertices in the positions chunk.
type IndexEntry struct {
	NameBegin, NameEnd     uint32
	VertexBegin, VertexEnd uint32
}

// VertexCount is the number of vertices the entry covers.
func (e IndexEntry) VertexCount() uint32 {
	return e.VertexEnd - e.VertexBegin
}
