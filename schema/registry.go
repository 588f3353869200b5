package schema

type key struct {
	element  string
	property string
}

// Registry is the immutable table of allowed (element, property) declarations.
// It is safe for concurrent use.
type Registry struct {
	entries []PropertySchema
	index   map[key]int
}

// Builder collects registrations before a Registry is frozen.
// A Builder is not safe for concurrent use.
type Builder struct {
	entries []PropertySchema
	index   map[key]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[key]int)}
}

// Register adds an (element, property) declaration.
//
// accepted lists the header spellings that map to storage; the first entry is
// the canonical spelling used when a writer has nothing better to emit.
func (b *Builder) Register(element, property string, accepted []string, storage StorageType) error {
	if len(accepted) == 0 {
		return &Error{Op: "register", Element: element, Property: property, Err: ErrConfig}
	}
	if !storage.Valid() {
		return &Error{Op: "register", Element: element, Property: property, Type: storage.String(), Err: ErrConfig}
	}
	for _, t := range accepted {
		if t == "" {
			return &Error{Op: "register", Element: element, Property: property, Err: ErrConfig}
		}
	}
	k := key{element, property}
	if _, ok := b.index[k]; ok {
		return &Error{Op: "register", Element: element, Property: property, Err: ErrDuplicateProperty}
	}

	b.index[k] = len(b.entries)
	b.entries = append(b.entries, PropertySchema{
		Element:       element,
		Name:          property,
		AcceptedTypes: append([]string(nil), accepted...),
		StorageType:   storage,
		HeaderType:    accepted[0],
	})
	return nil
}

// Build freezes the registrations. The Builder may keep being used; later
// registrations do not affect registries already built.
func (b *Builder) Build() *Registry {
	r := &Registry{
		entries: make([]PropertySchema, len(b.entries)),
		index:   make(map[key]int, len(b.index)),
	}
	for i, e := range b.entries {
		r.entries[i] = e.clone()
	}
	for k, v := range b.index {
		r.index[k] = v
	}
	return r
}

// Resolve returns a private copy of the registered schema.
func (r *Registry) Resolve(element, property string) (PropertySchema, error) {
	i, ok := r.index[key{element, property}]
	if !ok {
		return PropertySchema{}, &Error{Op: "resolve", Element: element, Property: property, Err: ErrSchemaNotFound}
	}
	return r.entries[i].clone(), nil
}

// IsAccepted reports whether spelling is a valid header type for the pair.
// It returns false for unregistered pairs.
func (r *Registry) IsAccepted(element, property, spelling string) bool {
	i, ok := r.index[key{element, property}]
	if !ok {
		return false
	}
	return r.entries[i].Accepts(spelling)
}

// Entries returns copies of all registrations in registration order.
func (r *Registry) Entries() []PropertySchema {
	out := make([]PropertySchema, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	return len(r.entries)
}
