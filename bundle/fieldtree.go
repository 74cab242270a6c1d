// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// maxFieldDepth bounds struct/array nesting on read.
const maxFieldDepth = 64

// Kind is the value kind of one field.
type Kind uint8

// Field kinds.
const (
	KindInt    Kind = 1
	KindFloat  Kind = 2
	KindBool   Kind = 3
	KindString Kind = 4
	KindBytes  Kind = 5
	KindStruct Kind = 6
	KindArray  Kind = 7
)

var kindNames = map[Kind]string{
	KindInt:    "int",
	KindFloat:  "float",
	KindBool:   "bool",
	KindString: "string",
	KindBytes:  "bytes",
	KindStruct: "struct",
	KindArray:  "array",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// hasChildren reports whether fields of kind k carry children.
func (k Kind) hasChildren() bool {
	return k == KindStruct || k == KindArray
}

// Field is one node of a decoded object field tree.
// Exactly one value member is meaningful, selected by Kind.
type Field struct {
	Name     string   `json:"name"`
	Kind     Kind     `json:"kind"`
	Int      int64    `json:"int,omitempty"`
	Float    float64  `json:"float,omitempty"`
	Bool     bool     `json:"bool,omitempty"`
	Str      string   `json:"string,omitempty"`
	Bytes    []byte   `json:"bytes,omitempty"`
	Children []*Field `json:"children,omitempty"`
}

// NewInt returns an int field.
func NewInt(name string, v int64) *Field { return &Field{Name: name, Kind: KindInt, Int: v} }

// NewFloat returns a float field.
func NewFloat(name string, v float64) *Field { return &Field{Name: name, Kind: KindFloat, Float: v} }

// NewBool returns a bool field.
func NewBool(name string, v bool) *Field { return &Field{Name: name, Kind: KindBool, Bool: v} }

// NewString returns a string field.
func NewString(name, v string) *Field { return &Field{Name: name, Kind: KindString, Str: v} }

// NewBytes returns a bytes field.
func NewBytes(name string, v []byte) *Field { return &Field{Name: name, Kind: KindBytes, Bytes: v} }

// NewStruct returns a struct field with children.
func NewStruct(name string, children ...*Field) *Field {
	return &Field{Name: name, Kind: KindStruct, Children: children}
}

// NewArray returns an array field with items.
func NewArray(name string, items ...*Field) *Field {
	return &Field{Name: name, Kind: KindArray, Children: items}
}

// Child returns the first direct child named name, or nil.
func (f *Field) Child(name string) *Field {
	if f == nil {
		return nil
	}

	for _, c := range f.Children {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// Path walks direct children by name and returns nil when any step is missing.
func (f *Field) Path(names ...string) *Field {
	cur := f
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}

	return cur
}

// Find returns the first field named name in depth-first order, f included.
func (f *Field) Find(name string) *Field {
	if f == nil {
		return nil
	}
	if f.Name == name {
		return f
	}

	for _, c := range f.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}

	return nil
}

// Has reports whether f has a direct child named name.
func (f *Field) Has(name string) bool {
	return f.Child(name) != nil
}

// typedChild returns the named child when it has kind k.
func (f *Field) typedChild(name string, k Kind) (*Field, error) {
	c := f.Child(name)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
	}
	if c.Kind != k {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrFieldKind, name, c.Kind, k)
	}

	return c, nil
}

// IntValue returns the named int child.
func (f *Field) IntValue(name string) (int64, error) {
	c, err := f.typedChild(name, KindInt)
	if err != nil {
		return 0, err
	}

	return c.Int, nil
}

// StringValue returns the named string child.
func (f *Field) StringValue(name string) (string, error) {
	c, err := f.typedChild(name, KindString)
	if err != nil {
		return "", err
	}

	return c.Str, nil
}

// BytesValue returns the named bytes child.
func (f *Field) BytesValue(name string) ([]byte, error) {
	c, err := f.typedChild(name, KindBytes)
	if err != nil {
		return nil, err
	}

	return c.Bytes, nil
}

// SetInt overwrites the named int child.
func (f *Field) SetInt(name string, v int64) error {
	c, err := f.typedChild(name, KindInt)
	if err != nil {
		return err
	}

	c.Int = v
	return nil
}

// SetString overwrites the named string child.
func (f *Field) SetString(name, v string) error {
	c, err := f.typedChild(name, KindString)
	if err != nil {
		return err
	}

	c.Str = v
	return nil
}

// SetBytes overwrites the named bytes child.
func (f *Field) SetBytes(name string, v []byte) error {
	c, err := f.typedChild(name, KindBytes)
	if err != nil {
		return err
	}

	c.Bytes = v
	return nil
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}

	out := *f
	out.Bytes = bytes.Clone(f.Bytes)
	if f.Children != nil {
		out.Children = make([]*Field, len(f.Children))
		for i, c := range f.Children {
			out.Children[i] = c.Clone()
		}
	}

	return &out
}

// ReadFieldTree decodes one object payload into a field tree.
func ReadFieldTree(data []byte) (*Field, error) {
	d := fieldDecoder{data: data}
	root, err := d.field(0)
	if err != nil {
		return nil, err
	}
	if d.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidFieldTree, len(data)-d.pos)
	}

	return root, nil
}

// WriteFieldTree encodes a field tree into an object payload.
func WriteFieldTree(root *Field) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidFieldTree)
	}

	var buf bytes.Buffer
	if err := writeField(&buf, root); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeField appends one field and its children.
func writeField(buf *bytes.Buffer, f *Field) error {
	if _, ok := kindNames[f.Kind]; !ok {
		return fmt.Errorf("%w: field %q has %s", ErrInvalidFieldTree, f.Name, f.Kind)
	}

	buf.WriteByte(byte(f.Kind))
	buf.Write(binary.AppendUvarint(nil, uint64(len(f.Name))))
	buf.WriteString(f.Name)

	switch f.Kind {
	case KindInt:
		buf.Write(binary.AppendVarint(nil, f.Int))
	case KindFloat:
		buf.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(f.Float)))
	case KindBool:
		if f.Bool {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case KindString:
		buf.Write(binary.AppendUvarint(nil, uint64(len(f.Str))))
		buf.WriteString(f.Str)
	case KindBytes:
		buf.Write(binary.AppendUvarint(nil, uint64(len(f.Bytes))))
		buf.Write(f.Bytes)
	case KindStruct, KindArray:
		buf.Write(binary.AppendUvarint(nil, uint64(len(f.Children))))
		for _, c := range f.Children {
			if c == nil {
				return fmt.Errorf("%w: nil child in %q", ErrInvalidFieldTree, f.Name)
			}
			if err := writeField(buf, c); err != nil {
				return err
			}
		}
	}

	return nil
}

// fieldDecoder reads fields sequentially from one payload.
type fieldDecoder struct {
	data []byte
	pos  int
}

// field reads one field at nesting depth.
func (d *fieldDecoder) field(depth int) (*Field, error) {
	if depth > maxFieldDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidFieldTree, maxFieldDepth)
	}
	if d.pos >= len(d.data) {
		return nil, fmt.Errorf("%w: unexpected end", ErrInvalidFieldTree)
	}

	f := &Field{Kind: Kind(d.data[d.pos])}
	d.pos++
	if _, ok := kindNames[f.Kind]; !ok {
		return nil, fmt.Errorf("%w: %s at offset %d", ErrInvalidFieldTree, f.Kind, d.pos-1)
	}

	name, err := d.blob()
	if err != nil {
		return nil, err
	}
	f.Name = string(name)

	switch f.Kind {
	case KindInt:
		v, n := binary.Varint(d.data[d.pos:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: bad varint in %q", ErrInvalidFieldTree, f.Name)
		}
		d.pos += n
		f.Int = v
	case KindFloat:
		if len(d.data)-d.pos < 8 {
			return nil, fmt.Errorf("%w: float %q", ErrInvalidFieldTree, f.Name)
		}
		f.Float = math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.pos:]))
		d.pos += 8
	case KindBool:
		if d.pos >= len(d.data) {
			return nil, fmt.Errorf("%w: bool %q", ErrInvalidFieldTree, f.Name)
		}
		f.Bool = d.data[d.pos] != 0
		d.pos++
	case KindString:
		v, err := d.blob()
		if err != nil {
			return nil, err
		}
		f.Str = string(v)
	case KindBytes:
		v, err := d.blob()
		if err != nil {
			return nil, err
		}
		f.Bytes = bytes.Clone(v)
	case KindStruct, KindArray:
		count, err := d.uvarint()
		if err != nil {
			return nil, err
		}
		// every child needs at least 3 bytes
		if count > uint64(len(d.data)-d.pos)/3 {
			return nil, fmt.Errorf("%w: %q declares %d children", ErrInvalidFieldTree, f.Name, count)
		}
		if count > 0 {
			f.Children = make([]*Field, 0, count)
		}
		for range count {
			c, err := d.field(depth + 1)
			if err != nil {
				return nil, err
			}
			f.Children = append(f.Children, c)
		}
	}

	return f, nil
}

// uvarint reads one unsigned varint.
func (d *fieldDecoder) uvarint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad length at offset %d", ErrInvalidFieldTree, d.pos)
	}
	d.pos += n

	return v, nil
}

// blob reads a length-prefixed byte run without copying.
func (d *fieldDecoder) blob() ([]byte, error) {
	n, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(len(d.data)-d.pos) {
		return nil, fmt.Errorf("%w: length %d past end", ErrInvalidFieldTree, n)
	}

	out := d.data[d.pos : d.pos+int(n)]
	d.pos += int(n)

	return out, nil
}
