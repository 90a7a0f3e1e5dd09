package machine

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	// Construction errors
	ErrMemoryOverflow = errors.New(f("memory overflow"))

	// Execution errors
	ErrInvalidRegister     = errors.New(f("invalid register"))
	ErrInvalidInstruction  = errors.New(f("invalid instruction"))
	ErrInvalidMemoryAccess = errors.New(f("invalid memory access"))
	ErrOutput              = errors.New(f("output error"))
)

// ErrImageSize reports the size of a program image that does not fit in
// memory.
type ErrImageSize int

func (err ErrImageSize) Error() string {
	return f("image of %d bytes exceeds %d bytes of memory", int(err), MEMORY_SIZE)
}

// Is matches ErrMemoryOverflow.
func (err ErrImageSize) Is(target error) bool {
	return target == ErrMemoryOverflow
}

// ErrRuntime indicates the location of an execution error.
type ErrRuntime struct {
	Address uint32 // Address of the instruction that failed.
	Code    Code   // Decoded instruction, as far as decoding got.
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("%03x: %v: %v", err.Address, err.Code, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
