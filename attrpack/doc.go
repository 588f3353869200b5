// Package attrpack stores the columns a geometry compressor does not carry.
//
// A geometry compressor only sees point positions. Everything else an element
// holds (colors, opacities, spherical harmonics, whole unrelated elements)
// goes into a pack file next to the compressed geometry, together with the
// manifest needed to invert the encode: the bounding box, the bit depth, the
// log flag and the original schema order.
//
// # File layout
//
//	"SPAK" | version u32 | codec name len u8 | codec name
//	column block streams ...
//	manifest (encoded with the named codec)
//	manifest len u32 | "SPAK"
//
// Each column is a stream of blocks, [uncompressed u32][compressed u32][data].
// A compressed size of 0 means the block is stored raw. All integers are
// little-endian.
package attrpack
