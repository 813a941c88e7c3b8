package format

import "encoding/binary"

type Code uint8

const (
	CodeBool Code = iota
	CodeInt8
	CodeUint8
	CodeInt16
	CodeUint16
	CodeInt32
	CodeUint32
	CodeInt64
	CodeUint64
	CodeFloat32
	CodeFloat64
	CodeBytes
)

var codeNames = [...]string{
	CodeBool:    "bool",
	CodeInt8:    "int8",
	CodeUint8:   "uint8",
	CodeInt16:   "int16",
	CodeUint16:  "uint16",
	CodeInt32:   "int32",
	CodeUint32:  "uint32",
	CodeInt64:   "int64",
	CodeUint64:  "uint64",
	CodeFloat32: "float32",
	CodeFloat64: "float64",
	CodeBytes:   "bytes",
}

var codeChars = [...]byte{
	CodeBool:    '?',
	CodeInt8:    'b',
	CodeUint8:   'B',
	CodeInt16:   'h',
	CodeUint16:  'H',
	CodeInt32:   'i',
	CodeUint32:  'I',
	CodeInt64:   'q',
	CodeUint64:  'Q',
	CodeFloat32: 'f',
	CodeFloat64: 'd',
	CodeBytes:   's',
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}

// Char returns the canonical format character.
func (c Code) Char() byte {
	if int(c) < len(codeChars) {
		return codeChars[c]
	}
	return '?'
}

// Width is the encoded size of one item. Bytes items are sized by their count.
func (c Code) Width() int {
	switch c {
	case CodeBool, CodeInt8, CodeUint8, CodeBytes:
		return 1
	case CodeInt16, CodeUint16:
		return 2
	case CodeInt32, CodeUint32, CodeFloat32:
		return 4
	default:
		return 8
	}
}

func (c Code) IsSigned() bool {
	switch c {
	case CodeInt8, CodeInt16, CodeInt32, CodeInt64:
		return true
	}
	return false
}

func (c Code) IsUnsigned() bool {
	switch c {
	case CodeUint8, CodeUint16, CodeUint32, CodeUint64:
		return true
	}
	return false
}

func (c Code) IsFloat() bool {
	return c == CodeFloat32 || c == CodeFloat64
}

func codeFor(ch byte) (Code, bool) {
	switch ch {
	case '?':
		return CodeBool, true
	case 'b':
		return CodeInt8, true
	case 'B':
		return CodeUint8, true
	case 'h':
		return CodeInt16, true
	case 'H':
		return CodeUint16, true
	case 'i', 'l':
		return CodeInt32, true
	case 'I', 'L':
		return CodeUint32, true
	case 'q':
		return CodeInt64, true
	case 'Q':
		return CodeUint64, true
	case 'f':
		return CodeFloat32, true
	case 'd':
		return CodeFloat64, true
	case 's':
		return CodeBytes, true
	}
	return 0, false
}

// Order is a byte-order marker. The zero value is little endian.
type Order uint8

const (
	OrderLittle Order = iota
	OrderBig
	OrderNetwork
	OrderNative
)

var orderMarkers = [...]byte{
	OrderLittle:  '<',
	OrderBig:     '>',
	OrderNetwork: '!',
	OrderNative:  '@',
}

// OrderFromMarker maps '<', '>', '!' and '@' to an Order.
func OrderFromMarker(ch byte) (Order, bool) {
	switch ch {
	case '<':
		return OrderLittle, true
	case '>':
		return OrderBig, true
	case '!':
		return OrderNetwork, true
	case '@':
		return OrderNative, true
	}
	return 0, false
}

func (o Order) Marker() byte {
	if int(o) < len(orderMarkers) {
		return orderMarkers[o]
	}
	return '<'
}

// ByteOrder resolves the marker. Native order uses standard sizes without
// alignment, so it only differs from '<' on big-endian hosts.
func (o Order) ByteOrder() binary.ByteOrder {
	switch o {
	case OrderBig, OrderNetwork:
		return binary.BigEndian
	case OrderNative:
		return binary.NativeEndian
	default:
		return binary.LittleEndian
	}
}
