package ply

import (
	"fmt"

	"github.com/hupe1980/splatpress/schema"
)

// Element holds the property columns of one element, keyed by property name.
type Element struct {
	Name       string
	Properties map[string][]Value
}

// NewElement returns an element without columns.
func NewElement(name string) *Element {
	return &Element{Name: name, Properties: make(map[string][]Value)}
}

// Property returns the column for name.
func (e *Element) Property(name string) ([]Value, error) {
	col, ok := e.Properties[name]
	if !ok {
		return nil, &Error{Op: "lookup", Element: e.Name, Property: name, Err: ErrNotFound}
	}
	return col, nil
}

// SetProperty replaces (or adds) the column for name.
func (e *Element) SetProperty(name string, values []Value) {
	e.Properties[name] = values
}

// Len returns the shared column length. Columns of unequal length yield
// ErrDimensionMismatch.
func (e *Element) Len() (int, error) {
	n := -1
	for name, col := range e.Properties {
		if n == -1 {
			n = len(col)
			continue
		}
		if len(col) != n {
			return 0, &Error{Op: "len", Element: e.Name, Property: name,
				Err: fmt.Errorf("%w: column has %d values, others %d", ErrDimensionMismatch, len(col), n)}
		}
	}
	if n == -1 {
		return 0, nil
	}
	return n, nil
}

// Dataset is the in-memory form of a container. Elements is unordered;
// Schemas decides header and body order.
type Dataset struct {
	Elements map[string]*Element
	Schemas  []*schema.ElementSchema
	// Format is the body encoding the dataset was read from.
	Format Format
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{Elements: make(map[string]*Element)}
}

// AddElement appends es to the schema list and returns its (possibly new)
// element.
func (d *Dataset) AddElement(es *schema.ElementSchema) *Element {
	d.Schemas = append(d.Schemas, es)
	el, ok := d.Elements[es.Name]
	if !ok {
		el = NewElement(es.Name)
		d.Elements[es.Name] = el
	}
	return el
}

// Schema returns the schema of the named element.
func (d *Dataset) Schema(name string) (*schema.ElementSchema, bool) {
	for _, es := range d.Schemas {
		if es.Name == name {
			return es, true
		}
	}
	return nil, false
}

// Element returns the named element.
func (d *Dataset) Element(name string) (*Element, error) {
	el, ok := d.Elements[name]
	if !ok {
		return nil, &Error{Op: "lookup", Element: name, Err: ErrNotFound}
	}
	return el, nil
}

// Property returns one column.
func (d *Dataset) Property(element, name string) ([]Value, error) {
	el, err := d.Element(element)
	if err != nil {
		return nil, err
	}
	return el.Property(name)
}

// SetProperty replaces one column, creating the element entry if needed.
// The schema list is not touched.
func (d *Dataset) SetProperty(element, name string, values []Value) {
	el, ok := d.Elements[element]
	if !ok {
		el = NewElement(element)
		d.Elements[element] = el
	}
	el.SetProperty(name, values)
}

// Float32s returns copies of the named columns as float32 slices.
func (d *Dataset) Float32s(element string, names ...string) ([][]float32, error) {
	out := make([][]float32, len(names))
	for i, name := range names {
		col, err := d.Property(element, name)
		if err != nil {
			return nil, err
		}
		if out[i], err = Float32Column(col); err != nil {
			return nil, &Error{Op: "lookup", Element: element, Property: name, Err: err}
		}
	}
	return out, nil
}

// Int32s returns copies of the named columns as int32 slices.
func (d *Dataset) Int32s(element string, names ...string) ([][]int32, error) {
	out := make([][]int32, len(names))
	for i, name := range names {
		col, err := d.Property(element, name)
		if err != nil {
			return nil, err
		}
		if out[i], err = Int32Column(col); err != nil {
			return nil, &Error{Op: "lookup", Element: element, Property: name, Err: err}
		}
	}
	return out, nil
}

// SetFloat32s replaces the named columns.
func (d *Dataset) SetFloat32s(element string, names []string, cols [][]float32) error {
	if len(names) != len(cols) {
		return &Error{Op: "set", Element: element,
			Err: fmt.Errorf("%w: %d names for %d columns", ErrDimensionMismatch, len(names), len(cols))}
	}
	for i, name := range names {
		d.SetProperty(element, name, Float32Values(cols[i]))
	}
	return nil
}

// SetInt32s replaces the named columns.
func (d *Dataset) SetInt32s(element string, names []string, cols [][]int32) error {
	if len(names) != len(cols) {
		return &Error{Op: "set", Element: element,
			Err: fmt.Errorf("%w: %d names for %d columns", ErrDimensionMismatch, len(names), len(cols))}
	}
	for i, name := range names {
		d.SetProperty(element, name, Int32Values(cols[i]))
	}
	return nil
}

// ElementInfo summarizes one element for display.
type ElementInfo struct {
	Name       string
	Count      int
	Properties []PropertyInfo
}

// PropertyInfo summarizes one column.
type PropertyInfo struct {
	Name       string
	HeaderType string
	Storage    schema.StorageType
	Values     int
}

// Describe lists elements and columns in schema order.
func (d *Dataset) Describe() []ElementInfo {
	out := make([]ElementInfo, 0, len(d.Schemas))
	for _, es := range d.Schemas {
		info := ElementInfo{Name: es.Name, Count: es.Count}
		el := d.Elements[es.Name]
		for _, p := range es.Properties {
			pi := PropertyInfo{Name: p.Name, HeaderType: p.EmitType(), Storage: p.StorageType}
			if el != nil {
				pi.Values = len(el.Properties[p.Name])
			}
			info.Properties = append(info.Properties, pi)
		}
		out = append(out, info)
	}
	return out
}
