package schema

import (
	"bytes"
	stderrors "errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record"
)

// Document is the YAML schema layout.
type Document struct {
	Types []TypeDecl `yaml:"types"`
}

type TypeDecl struct {
	Name   string      `yaml:"name"`
	Order  string      `yaml:"order,omitempty"`
	Fields []FieldDecl `yaml:"fields"`
}

// FieldDecl sets exactly one of Format and Type.
type FieldDecl struct {
	Name   string `yaml:"name"`
	Format string `yaml:"format,omitempty"`
	Type   string `yaml:"type,omitempty"`
}

// LoadYAML builds a new registry from a YAML document.
func LoadYAML(data []byte) (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadYAML(data); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadYAML declares every type in the document, in order. Fields may refer
// to types registered earlier, including ones from the same document.
func (r *Registry) LoadYAML(data []byte) error {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "decode yaml schema")
	}

	for _, td := range doc.Types {
		t, err := r.declare(td)
		if err != nil {
			return err
		}
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) declare(td TypeDecl) (*record.Type, error) {
	b := record.NewBuilder(td.Name)
	if td.Order != "" {
		o, ok := parseOrder(td.Order)
		if !ok {
			return nil, errors.New(errors.PhaseSchema, errors.KindInvalidFormat).
				Type(td.Name).
				Detail("unknown byte order %q", td.Order).
				Build()
		}
		b.Order(o)
	}

	for _, fd := range td.Fields {
		switch {
		case fd.Format != "" && fd.Type != "":
			return nil, errors.New(errors.PhaseSchema, errors.KindInvalidFormat).
				Path(td.Name, fd.Name).
				Detail("field sets both format and type").
				Build()
		case fd.Type != "":
			nested, err := r.Lookup(fd.Type)
			if err != nil {
				return nil, err
			}
			b.Nested(fd.Name, nested)
		default:
			b.Scalar(fd.Name, fd.Format)
		}
	}
	return b.Build()
}

func parseOrder(s string) (record.ByteOrder, bool) {
	switch s {
	case "<", "little":
		return record.LittleEndian, true
	case ">", "big":
		return record.BigEndian, true
	case "!", "network":
		return record.Network, true
	case "@", "native":
		return record.Native, true
	}
	return 0, false
}

// MarshalYAML renders the registered types as a Document. Nested types are
// emitted before the types that use them so the output loads back with
// LoadYAML. Two distinct types sharing a name cannot be told apart in a
// document and fail with KindInvalidFormat.
func (r *Registry) MarshalYAML() (any, error) {
	var doc Document
	byName := make(map[string]*record.Type)
	var emit func(t *record.Type) error
	emit = func(t *record.Type) error {
		if prev, ok := byName[t.Name()]; ok {
			if prev == t {
				return nil
			}
			return errors.New(errors.PhaseSchema, errors.KindInvalidFormat).
				Type(t.Name()).
				Detail("two different types are named %q", t.Name()).
				Build()
		}
		byName[t.Name()] = t
		td := TypeDecl{Name: t.Name(), Order: string(rune(t.Order()))}
		for _, f := range t.Fields() {
			fd := FieldDecl{Name: f.Name()}
			if f.IsNested() {
				if err := emit(f.Nested()); err != nil {
					return err
				}
				fd.Type = f.Nested().Name()
			} else {
				fd.Format = f.Format()
			}
			td.Fields = append(td.Fields, fd)
		}
		doc.Types = append(doc.Types, td)
		return nil
	}
	for _, name := range r.Names() {
		if err := emit(r.MustLookup(name)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
