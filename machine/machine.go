package machine

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"slices"
	"strconv"
)

// Machine is the simulation context for the virtual machine.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Ticks int // Executed instructions counter.

	memory    Memory        // Flat memory.
	registers [NREGS]uint32 // Register bank; registers[IP] is the instruction pointer.
}

// New creates a machine in its reset state, with image copied to the
// start of memory. The rest of memory and all registers are zero.
func New(image []byte) (machine *Machine, err error) {
	if len(image) > MEMORY_SIZE {
		err = errors.Join(ErrMemoryOverflow, ErrImageSize(len(image)))
		return
	}

	machine = &Machine{}
	copy(machine.memory[:], image)

	return
}

// Load creates a machine from a program image read from r.
func Load(r io.Reader) (machine *Machine, err error) {
	image, err := io.ReadAll(io.LimitReader(r, MEMORY_SIZE+1))
	if err != nil {
		return
	}

	return New(image)
}

// Registers returns a copy of the register bank.
func (machine *Machine) Registers() [NREGS]uint32 {
	return machine.registers
}

// Memory returns a copy of the memory.
func (machine *Machine) Memory() []byte {
	return slices.Clone(machine.memory[:])
}

// Register returns the value of a register.
func (machine *Machine) Register(index int) (value uint32, err error) {
	if index < 0 || index >= NREGS {
		err = ErrInvalidRegister
		return
	}

	value = machine.registers[index]
	return
}

// SetRegister sets a register to the given value.
// Setting register IP moves the instruction pointer.
func (machine *Machine) SetRegister(index int, value uint32) (err error) {
	if index < 0 || index >= NREGS {
		err = ErrInvalidRegister
		return
	}

	machine.registers[index] = value
	return
}

// String returns the current register state as a string.
func (machine *Machine) String() (text string) {
	for n, val := range machine.registers {
		name := fmt.Sprintf("r%d", n)
		if n == IP {
			name = "ip"
		}
		text += fmt.Sprintf("% 4s: %04X_%04X\n", name, val>>16, val&0xffff)
	}
	text += fmt.Sprintf("% 4s: %v\n", "tick", machine.Ticks)

	return
}

// Run until the program halts or an error happens, writing output
// instructions to standard output.
func (machine *Machine) Run() error {
	return machine.RunOn(os.Stdout)
}

// RunOn runs until the program halts or an error happens, writing output
// instructions to out.
func (machine *Machine) RunOn(out io.Writer) (err error) {
	for done := false; !done; {
		done, err = machine.StepOn(out)
		if err != nil {
			return
		}
	}

	return
}

// Steps returns an iterator over the instructions executed by the machine.
// Iteration ends after a halt. An execution error is yielded with the
// failing instruction, and ends the iteration.
func (machine *Machine) Steps(out io.Writer) iter.Seq2[Code, error] {
	return func(yield func(code Code, err error) bool) {
		for {
			code, done, err := machine.step(out)
			if !yield(code, err) || done || err != nil {
				return
			}
		}
	}
}

// Step executes the next instruction, writing output instructions to
// standard output.
func (machine *Machine) Step() (bool, error) {
	return machine.StepOn(os.Stdout)
}

// StepOn executes the next instruction:
//   - fetch the opcode at IP (register 0)
//   - advance IP by the size of the instruction
//   - decode and validate the operands
//   - execute the instruction
//
// Output instructions write to out. On success done is true if the
// instruction was a halt.
//
// When an error is returned no register or memory has been changed,
// except that IP has been advanced if the opcode was valid.
func (machine *Machine) StepOn(out io.Writer) (done bool, err error) {
	_, done, err = machine.step(out)
	return
}

// step executes the next instruction, and returns it as decoded.
func (machine *Machine) step(out io.Writer) (code Code, done bool, err error) {
	address := machine.registers[IP]

	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: address, Code: code, Err: err}
		}
	}()

	op, err := machine.fetch(address)
	code.Op = op
	if err != nil {
		return
	}

	size := op.Len()
	machine.registers[IP] += uint32(size)

	args, err := machine.memory.Span(address+1, size-1)
	if err != nil {
		return
	}

	code = decodeCode(op, args)
	for _, reg := range code.Registers() {
		if reg >= NREGS {
			err = ErrInvalidRegister
			return
		}
	}

	if machine.Verbose {
		log.Printf("machine: %03x: %v", address, code)
	}

	done, err = machine.Execute(code, out)
	if err != nil {
		return
	}

	machine.Ticks++

	return
}

// fetch returns the opcode at address.
func (machine *Machine) fetch(address uint32) (op Opcode, err error) {
	if address >= MEMORY_SIZE {
		err = ErrInvalidMemoryAccess
		return
	}

	op = Opcode(machine.memory[address])
	if !op.Valid() {
		err = ErrInvalidInstruction
		return
	}

	return
}

// Execute executes a single decoded instruction. The IP is not advanced;
// StepOn does that before calling Execute.
func (machine *Machine) Execute(code Code, out io.Writer) (done bool, err error) {
	for _, reg := range code.Registers() {
		if reg >= NREGS {
			err = ErrInvalidRegister
			return
		}
	}

	regs := &machine.registers

	switch code.Op {
	case OP_COND_MOVE:
		if regs[code.Rk] != 0 {
			regs[code.Ri] = regs[code.Rj]
		}
	case OP_STORE:
		err = machine.memory.SetWord(regs[code.Ri], regs[code.Rj])
	case OP_LOAD:
		var value uint32
		value, err = machine.memory.Word(regs[code.Rj])
		if err != nil {
			return
		}
		regs[code.Ri] = value
	case OP_LOAD_IMMEDIATE:
		regs[code.Ri] = uint32(int32(code.Imm))
	case OP_SUB:
		regs[code.Ri] = regs[code.Rj] - regs[code.Rk]
	case OP_OUT_CHAR:
		err = write(out, []byte{byte(regs[code.Ri])})
	case OP_HALT:
		done = true
	case OP_OUT_INT:
		err = write(out, strconv.AppendInt(nil, int64(int32(regs[code.Ri])), 10))
	default:
		err = ErrInvalidInstruction
	}

	return
}

// write sends all of data to out.
func write(out io.Writer, data []byte) (err error) {
	n, err := out.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		err = errors.Join(ErrOutput, err)
	}

	return
}
