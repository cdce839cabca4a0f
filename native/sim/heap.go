package sim

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	speechsdk "github.com/wippyai/speech-sdk-go"
	"github.com/wippyai/speech-sdk-go/errors"
)

const (
	pageSize  = 65536
	heapBase  = 16 // offsets below are never handed out, so 0 stays NULL
	heapAlign = 8
)

// memoryModule is a minimal WASM module with 1 page of memory exported as "memory".
var memoryModule = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

type span struct {
	off  uint32
	size uint32
}

// heap is a first-fit allocator over a wazero linear memory.
// Callers hold the SDK lock.
type heap struct {
	mem      api.Memory
	mod      api.Module
	used     map[uint32]uint32
	free     []span
	top      uint32
	maxPages uint32
}

func newHeap(ctx context.Context, rt wazero.Runtime, cfg Config) (*heap, error) {
	compiled, err := rt.CompileModule(ctx, memoryModule)
	if err != nil {
		return nil, fmt.Errorf("compile heap module: %w", err)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("spx-heap"))
	if err != nil {
		return nil, fmt.Errorf("instantiate heap module: %w", err)
	}

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		_ = mod.Close(ctx)
		return nil, fmt.Errorf("heap module exports no memory")
	}

	if cfg.InitialPages > 1 {
		if _, ok := mem.Grow(cfg.InitialPages - 1); !ok {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("grow heap to %d pages", cfg.InitialPages)
		}
	}

	return &heap{
		mem:      mem,
		mod:      mod,
		used:     make(map[uint32]uint32),
		top:      heapBase,
		maxPages: cfg.MaxPages,
	}, nil
}

func alignUp(n uint32) uint32 {
	return (n + heapAlign - 1) &^ (heapAlign - 1)
}

func (h *heap) alloc(size uint32) (uint32, error) {
	if size == 0 {
		size = 1
	}
	if size > math.MaxUint32-heapAlign {
		return 0, errors.AllocationFailed(size, nil)
	}
	n := alignUp(size)

	for i, s := range h.free {
		if s.size < n {
			continue
		}
		if s.size == n {
			h.free = slices.Delete(h.free, i, i+1)
		} else {
			h.free[i] = span{off: s.off + n, size: s.size - n}
		}
		return s.off, h.claim(s.off, n)
	}

	end := uint64(h.top) + uint64(n)
	if end > uint64(h.mem.Size()) {
		if err := h.grow(end); err != nil {
			return 0, errors.AllocationFailed(size, err)
		}
	}
	off := h.top
	h.top = uint32(end)
	return off, h.claim(off, n)
}

func (h *heap) claim(off, n uint32) error {
	if !h.mem.Write(off, make([]byte, n)) {
		return errors.OutOfBounds(uintptr(off), uint64(n), uint64(h.mem.Size()))
	}
	h.used[off] = n
	return nil
}

func (h *heap) grow(end uint64) error {
	current := uint64(h.mem.Size()) / pageSize
	needed := (end + pageSize - 1) / pageSize
	if needed > uint64(h.maxPages) {
		return fmt.Errorf("heap limit of %d pages reached", h.maxPages)
	}
	if _, ok := h.mem.Grow(uint32(needed - current)); !ok {
		return fmt.Errorf("grow heap from %d to %d pages", current, needed)
	}
	Logger().Debug("heap grown",
		zap.Uint64("from_pages", current),
		zap.Uint64("to_pages", needed))
	return nil
}

// release returns the block at off to the free list, coalescing neighbours.
func (h *heap) release(off uint32) bool {
	n, ok := h.used[off]
	if !ok {
		return false
	}
	delete(h.used, off)

	i, _ := slices.BinarySearchFunc(h.free, off, func(s span, off uint32) int {
		return int(int64(s.off) - int64(off))
	})
	h.free = slices.Insert(h.free, i, span{off: off, size: n})

	if i+1 < len(h.free) && h.free[i].off+h.free[i].size == h.free[i+1].off {
		h.free[i].size += h.free[i+1].size
		h.free = slices.Delete(h.free, i+1, i+2)
	}
	if i > 0 && h.free[i-1].off+h.free[i-1].size == h.free[i].off {
		h.free[i-1].size += h.free[i].size
		h.free = slices.Delete(h.free, i, i+1)
		i--
	}
	if last := h.free[i]; i == len(h.free)-1 && last.off+last.size == h.top {
		h.top = last.off
		h.free = h.free[:i]
	}
	return true
}

func (h *heap) offset(p speechsdk.Ptr, length uint32) (uint32, error) {
	if p == 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).Detail("NULL pointer").Build()
	}
	if uint64(p)+uint64(length) > uint64(h.mem.Size()) {
		return 0, errors.OutOfBounds(uintptr(p), uint64(length), uint64(h.mem.Size()))
	}
	return uint32(p), nil
}

func (h *heap) read(p speechsdk.Ptr, length uint32) ([]byte, error) {
	off, err := h.offset(p, length)
	if err != nil {
		return nil, err
	}
	data, ok := h.mem.Read(off, length)
	if !ok {
		return nil, errors.OutOfBounds(uintptr(p), uint64(length), uint64(h.mem.Size()))
	}
	// wazero returns a view of linear memory
	return bytes.Clone(data), nil
}

func (h *heap) write(p speechsdk.Ptr, data []byte) error {
	off, err := h.offset(p, uint32(len(data)))
	if err != nil {
		return err
	}
	if !h.mem.Write(off, data) {
		return errors.OutOfBounds(uintptr(p), uint64(len(data)), uint64(h.mem.Size()))
	}
	return nil
}

func (h *heap) cstrlen(p speechsdk.Ptr) (uint32, error) {
	off, err := h.offset(p, 1)
	if err != nil {
		return 0, err
	}
	data, ok := h.mem.Read(off, h.mem.Size()-off)
	if !ok {
		return 0, errors.OutOfBounds(uintptr(p), 1, uint64(h.mem.Size()))
	}
	n := bytes.IndexByte(data, 0)
	if n < 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Detail("string at 0x%x is not terminated before end of memory", uintptr(p)).
			Build()
	}
	return uint32(n), nil
}

// cstring reads the NUL-terminated string at p.
func (h *heap) cstring(p speechsdk.Ptr) ([]byte, error) {
	n, err := h.cstrlen(p)
	if err != nil {
		return nil, err
	}
	return h.read(p, n)
}

// place copies s plus a terminator into a fresh allocation.
func (h *heap) place(s []byte) (uint32, error) {
	off, err := h.alloc(uint32(len(s)) + 1)
	if err != nil {
		return 0, err
	}
	if !h.mem.Write(off, s) {
		h.release(off)
		return 0, errors.OutOfBounds(uintptr(off), uint64(len(s)), uint64(h.mem.Size()))
	}
	return off, nil
}
