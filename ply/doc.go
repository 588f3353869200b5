// Package ply reads and writes schema-checked PLY containers.
//
// The header is line-oriented text; the body is either ASCII (whitespace
// separated tokens, one record per line) or binary little-endian (fixed
// 4-byte values, record-major, no padding). Every property declared in a
// header must be accepted by a schema.Registry, otherwise the whole read
// fails before any body byte is decoded.
//
// Files are mapped read-only and values are decoded straight from the mapped
// pages; the raw bytes are never copied onto the heap. Writers stage output in
// a temporary file that only replaces the destination once it is complete.
//
//	r := ply.NewReader(schema.Default())
//	ds, err := r.ReadFile("scene.ply")
//	...
//	w := ply.NewWriter(schema.Default())
//	err = w.WriteFileMasked("positions.ply", ds, ply.BinaryLittleEndian, []string{"x", "y", "z"})
package ply
