package schema

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record"
)

// FromWIT builds a record type from a WIT record definition. Fixed-size
// primitives map to scalar formats, tuples of primitives to multi-value
// formats, and nested records to nested fields. Strings, lists, options,
// variants, enums, flags and resources have no fixed packed layout and are
// rejected with KindUnsupportedRecordType.
func FromWIT(td *wit.TypeDef, order record.ByteOrder) (*record.Type, error) {
	c := witConverter{order: order, done: make(map[*wit.TypeDef]*record.Type)}
	return c.record(td)
}

// AddWIT converts td like FromWIT and registers it together with every nested
// record type it references.
func (r *Registry) AddWIT(td *wit.TypeDef, order record.ByteOrder) (*record.Type, error) {
	c := witConverter{order: order, done: make(map[*wit.TypeDef]*record.Type)}
	t, err := c.record(td)
	if err != nil {
		return nil, err
	}
	for _, def := range c.defs {
		if err := r.Register(c.done[def]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

type witConverter struct {
	done  map[*wit.TypeDef]*record.Type
	defs  []*wit.TypeDef // converted records, dependencies first
	order record.ByteOrder
}

func (c *witConverter) record(td *wit.TypeDef) (*record.Type, error) {
	if td == nil {
		return nil, errors.UnsupportedRecordType(errors.PhaseSchema, "nil wit type definition")
	}
	if t, ok := c.done[td]; ok {
		return t, nil
	}
	rec, ok := td.Kind.(*wit.Record)
	if !ok {
		return nil, errors.UnsupportedRecordType(errors.PhaseSchema,
			fmt.Sprintf("wit type %s is %T, not a record", witName(td), td.Kind))
	}

	b := record.NewBuilder(witName(td)).Order(c.order)
	for _, f := range rec.Fields {
		if nested, ok := recordDef(f.Type); ok {
			t, err := c.record(nested)
			if err != nil {
				return nil, err
			}
			b.Nested(f.Name, t)
			continue
		}
		token, err := witToken(f.Type)
		if err != nil {
			return nil, errors.New(errors.PhaseSchema, errors.KindUnsupportedRecordType).
				Path(witName(td), f.Name).
				Cause(err).
				Detail("field has no fixed-size encoding").
				Build()
		}
		b.Scalar(f.Name, token)
	}

	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	c.done[td] = t
	c.defs = append(c.defs, td)
	return t, nil
}

// recordDef unwraps type aliases down to a record definition.
func recordDef(t wit.Type) (*wit.TypeDef, bool) {
	td, ok := t.(*wit.TypeDef)
	if !ok {
		return nil, false
	}
	switch kind := td.Kind.(type) {
	case *wit.Record:
		return td, true
	case *wit.TypeDef:
		return recordDef(kind)
	}
	return nil, false
}

func witToken(t wit.Type) (string, error) {
	switch v := t.(type) {
	case wit.Bool:
		return "?", nil
	case wit.S8:
		return "b", nil
	case wit.U8:
		return "B", nil
	case wit.S16:
		return "h", nil
	case wit.U16:
		return "H", nil
	case wit.S32:
		return "i", nil
	case wit.U32, wit.Char:
		return "I", nil
	case wit.S64:
		return "q", nil
	case wit.U64:
		return "Q", nil
	case wit.F32:
		return "f", nil
	case wit.F64:
		return "d", nil
	case *wit.TypeDef:
		switch kind := v.Kind.(type) {
		case *wit.Tuple:
			var b strings.Builder
			for _, elem := range kind.Types {
				tok, err := witToken(elem)
				if err != nil {
					return "", err
				}
				b.WriteString(tok)
			}
			if b.Len() == 0 {
				return "", errors.UnsupportedRecordType(errors.PhaseSchema, "empty tuple")
			}
			return b.String(), nil
		case wit.Type:
			return witToken(kind)
		}
		return "", errors.UnsupportedRecordType(errors.PhaseSchema, fmt.Sprintf("wit %T", v.Kind))
	}
	return "", errors.UnsupportedRecordType(errors.PhaseSchema, fmt.Sprintf("wit %T", t))
}

func witName(td *wit.TypeDef) string {
	if td.Name != nil && *td.Name != "" {
		return *td.Name
	}
	return "record"
}
