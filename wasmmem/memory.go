// Package wasmmem exposes wazero linear memory as a recview.Memory, so record
// types can view guest memory without copying.
package wasmmem

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/recview"
)

// Memory wraps wazero memory to implement recview.Memory. Read returns a view
// that aliases guest memory until the memory grows.
type Memory struct {
	mem api.Memory
}

func New(mem api.Memory) *Memory {
	return &Memory{mem: mem}
}

// MemoryExport is the export name FromModule looks up.
const MemoryExport = "memory"

// FromModule returns the memory the module exports as "memory". A memory the
// module defines but does not export is not visible.
func FromModule(mod api.Module) (*Memory, error) {
	mem := mod.ExportedMemory(MemoryExport)
	if mem == nil {
		return nil, fmt.Errorf("module %q exports no memory", mod.Name())
	}
	return New(mem), nil
}

func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *Memory) Write(offset uint32, data []byte) error {
	ok := m.mem.Write(offset, data)
	if !ok {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *Memory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Instance owns a runtime with one instantiated module.
type Instance struct {
	runtime wazero.Runtime
	module  api.Module
	memory  *Memory
}

// Instantiate compiles and instantiates wasm in a fresh runtime. The module
// must export a memory.
func Instantiate(ctx context.Context, wasm []byte, name string) (*Instance, error) {
	rt := wazero.NewRuntime(ctx)

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("compile: %w", err)
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate: %w", err)
	}
	mem, err := FromModule(mod)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return &Instance{runtime: rt, module: mod, memory: mem}, nil
}

func (i *Instance) Memory() *Memory { return i.memory }

func (i *Instance) Module() api.Module { return i.module }

// Close releases the runtime and everything instantiated in it.
func (i *Instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}

// Compile-time check that Memory implements recview.Memory and MemorySizer
var _ recview.Memory = (*Memory)(nil)
var _ recview.MemorySizer = (*Memory)(nil)
