// Package mmap maps input files read-only so codecs can decode values in place.
//
// A Mapping is a scoped borrow: slices returned by Bytes or Region.Bytes stay
// valid until Close, and nothing may write the file while it is mapped.
//
//	m, err := mmap.Open("scene.ply")
//	if err != nil { ... }
//	defer m.Close()
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix the file is mapped with mmap(2) and hints go to madvise(2). On
// Windows a read-only view is created and Advise is a no-op.
package mmap
