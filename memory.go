package recview

// Memory is a byte-addressable store a record view can be placed over,
// typically WASM linear memory. Read may return a view that shares storage
// with the memory; writes through Write are visible to such views.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// MemorySizer provides the current size of the memory in bytes.
type MemorySizer interface {
	Size() uint32
}
