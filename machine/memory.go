package machine

import (
	"encoding/binary"
)

const (
	MEMORY_SIZE = 4096 // Size of machine memory, in bytes.
	NREGS       = 16   // Number of registers.
	IP          = 0    // Register index of the instruction pointer.
	WORD_SIZE   = 4    // Size of a load/store access, in bytes.
)

// Memory is the flat machine memory.
type Memory [MEMORY_SIZE]byte

// Span returns the size bytes of memory starting at address, or
// ErrInvalidMemoryAccess if any of them falls outside of memory.
func (mem *Memory) Span(address uint32, size int) (data []byte, err error) {
	end := uint64(address) + uint64(size)
	if size < 0 || end > MEMORY_SIZE {
		err = ErrInvalidMemoryAccess
		return
	}

	data = mem[address:end]
	return
}

// Word returns the little-endian 32-bit word at address.
func (mem *Memory) Word(address uint32) (value uint32, err error) {
	data, err := mem.Span(address, WORD_SIZE)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint32(data)
	return
}

// SetWord writes value as a little-endian 32-bit word at address.
// Memory is unchanged on error.
func (mem *Memory) SetWord(address uint32, value uint32) (err error) {
	data, err := mem.Span(address, WORD_SIZE)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint32(data, value)
	return
}
