// Package schema keeps named record types and builds them from declarative
// sources.
//
// A Registry maps type names to *record.Type values. Types can be added from
// Go code, from a YAML document or from WIT record definitions:
//
//	types:
//	  - name: Point
//	    fields:
//	      - {name: x, format: "<d"}
//	      - {name: y, format: d}
//	  - name: Header
//	    order: little
//	    fields:
//	      - {name: code, format: i}
//	      - {name: xy1, type: Point}
//	      - {name: xy2, type: Point}
//	      - {name: npoly, format: i}
//
// A field names either a scalar format or a previously declared type. Lookups
// of unknown names fail with KindUnsupportedRecordType.
package schema
