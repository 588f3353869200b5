// Package fs abstracts the few filesystem operations the codecs need so that
// output can be written atomically and failures can be injected in tests.
//
// Production code uses [Default] ([LocalFS]). Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".ply", fs.Fault{FailAfterBytes: 64})
//	err := fs.SaveFile(ffs, "out/scene.ply", write) // no out/scene.ply afterwards
//
// There is no context.Context here: local file operations cannot be
// interrupted at the syscall level.
package fs
