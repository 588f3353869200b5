package schema

// ElementSchema is the declared layout of one element: its record count and
// the ordered property columns. Column order is the on-disk order.
type ElementSchema struct {
	Name       string
	Count      int
	Properties []PropertySchema

	names map[string]int
}

// NewElementSchema returns an element without properties.
func NewElementSchema(name string, count int) *ElementSchema {
	return &ElementSchema{Name: name, Count: count, names: make(map[string]int)}
}

// AddProperty resolves (element, property) in reg and appends it with
// headerType recorded as the observed spelling. An empty headerType selects
// the canonical spelling.
func (es *ElementSchema) AddProperty(reg *Registry, element, property, headerType string) error {
	if es.Name != element {
		return &Error{Op: "add property", Element: element, Property: property, Type: headerType, Err: ErrElementNameMismatch}
	}
	ps, err := reg.Resolve(element, property)
	if err != nil {
		return err
	}
	if headerType == "" {
		headerType = ps.CanonicalType()
	}
	if !ps.Accepts(headerType) {
		return &Error{Op: "add property", Element: element, Property: property, Type: headerType, Err: ErrUnregisteredSchema}
	}
	if es.HasProperty(property) {
		return &Error{Op: "add property", Element: element, Property: property, Err: ErrDuplicateProperty}
	}
	ps.HeaderType = headerType
	es.append(ps)
	return nil
}

func (es *ElementSchema) append(ps PropertySchema) {
	if es.names == nil {
		es.reindex()
	}
	es.names[ps.Name] = len(es.Properties)
	es.Properties = append(es.Properties, ps)
}

func (es *ElementSchema) reindex() {
	es.names = make(map[string]int, len(es.Properties))
	for i, p := range es.Properties {
		es.names[p.Name] = i
	}
}

// HasProperty reports whether the element declares name.
func (es *ElementSchema) HasProperty(name string) bool {
	_, ok := es.Lookup(name)
	return ok
}

// Lookup returns the column index of name.
func (es *ElementSchema) Lookup(name string) (int, bool) {
	if es.names == nil {
		es.reindex()
	}
	i, ok := es.names[name]
	return i, ok
}

// PropertyNames returns the column names in declared order.
func (es *ElementSchema) PropertyNames() []string {
	out := make([]string, len(es.Properties))
	for i, p := range es.Properties {
		out[i] = p.Name
	}
	return out
}

// StorageTypes returns the storage type of every column in declared order.
func (es *ElementSchema) StorageTypes() []StorageType {
	out := make([]StorageType, len(es.Properties))
	for i, p := range es.Properties {
		out[i] = p.StorageType
	}
	return out
}

// Len returns the number of declared properties.
func (es *ElementSchema) Len() int {
	return len(es.Properties)
}

// RecordSize returns the binary width of one record in bytes.
func (es *ElementSchema) RecordSize() int {
	n := 0
	for _, p := range es.Properties {
		n += p.StorageType.Size()
	}
	return n
}

// Filter returns a copy holding only the properties keep accepts, in declared
// order.
func (es *ElementSchema) Filter(keep func(name string) bool) *ElementSchema {
	out := NewElementSchema(es.Name, es.Count)
	for _, p := range es.Properties {
		if keep(p.Name) {
			out.append(p.clone())
		}
	}
	return out
}

// Clone returns a deep copy.
func (es *ElementSchema) Clone() *ElementSchema {
	return es.Filter(func(string) bool { return true })
}
