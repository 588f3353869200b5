// Package schema holds the registry of element/property declarations a PLY
// container may use.
//
// A Registry is built once with a Builder and is read-only afterwards, so it
// can be shared between readers and writers without locking. Every property
// line of a header is checked against it before any body data is touched.
//
//	b := schema.NewBuilder()
//	_ = b.Register("vertex", "x", []string{"float", "float32"}, schema.Float32)
//	reg := b.Build()
//
//	es := schema.NewElementSchema("vertex", 1024)
//	err := es.AddProperty(reg, "vertex", "x", "float")
package schema
