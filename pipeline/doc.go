// Package pipeline wires the codec stages into the encode and decode paths
// around an external geometry compressor.
//
// Encode:
//
//	read -> bbox -> log -> quantize -> morton keys -> sort (barrier)
//	     -> reorder every column -> geometry.ply (positions only)
//	     -> attributes.spak (everything else + manifest) -> compress
//
// Decode:
//
//	decompress -> read geometry -> morton sort -> dequantize -> exp
//	           -> restore columns from the pack -> write full container
//
// The decoder sorts the geometry again because compressors are free to
// reorder points. Both sides sort by the same keys, so the i-th decoded
// position lines up with the i-th packed attribute row.
package pipeline
