package machine

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Opcode is the first byte of an instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_COND_MOVE      = Opcode(1) // cmov
	OP_STORE          = Opcode(2) // store
	OP_LOAD           = Opcode(3) // load
	OP_LOAD_IMMEDIATE = Opcode(4) // loadi
	OP_SUB            = Opcode(5) // sub
	OP_OUT_CHAR       = Opcode(6) // outc
	OP_HALT           = Opcode(7) // halt
	OP_OUT_INT        = Opcode(8) // outi
)

// _opcode_len is the encoded length, opcode byte included.
var _opcode_len = [...]int{
	OP_COND_MOVE:      4,
	OP_STORE:          3,
	OP_LOAD:           3,
	OP_LOAD_IMMEDIATE: 4,
	OP_SUB:            4,
	OP_OUT_CHAR:       2,
	OP_HALT:           1,
	OP_OUT_INT:        2,
}

// MAX_CODE_LEN is the longest encoded instruction.
const MAX_CODE_LEN = 4

// Valid returns true if op is a defined opcode.
func (op Opcode) Valid() bool {
	return op >= OP_COND_MOVE && op <= OP_OUT_INT
}

// Len returns the encoded length of the instruction in bytes, including
// the opcode byte, or 0 for an undefined opcode.
func (op Opcode) Len() int {
	if !op.Valid() {
		return 0
	}
	return _opcode_len[op]
}

// Code is a decoded instruction.
// Fields not used by the opcode are zero.
type Code struct {
	Op  Opcode
	Ri  uint8
	Rj  uint8
	Rk  uint8
	Imm int16
}

// MakeCodeCondMove creates a conditional move: if r[rk] != 0, r[ri] = r[rj].
func MakeCodeCondMove(ri, rj, rk uint8) Code {
	return Code{Op: OP_COND_MOVE, Ri: ri, Rj: rj, Rk: rk}
}

// MakeCodeStore creates a 32-bit store of r[rj] to the address in r[ri].
func MakeCodeStore(ri, rj uint8) Code {
	return Code{Op: OP_STORE, Ri: ri, Rj: rj}
}

// MakeCodeLoad creates a 32-bit load into r[ri] from the address in r[rj].
func MakeCodeLoad(ri, rj uint8) Code {
	return Code{Op: OP_LOAD, Ri: ri, Rj: rj}
}

// MakeCodeLoadImmediate creates a sign-extending immediate load into r[ri].
func MakeCodeLoadImmediate(ri uint8, imm int16) Code {
	return Code{Op: OP_LOAD_IMMEDIATE, Ri: ri, Imm: imm}
}

// MakeCodeSub creates a wrapping subtraction r[ri] = r[rj] - r[rk].
func MakeCodeSub(ri, rj, rk uint8) Code {
	return Code{Op: OP_SUB, Ri: ri, Rj: rj, Rk: rk}
}

// MakeCodeOutChar creates a character output of the low byte of r[ri].
func MakeCodeOutChar(ri uint8) Code {
	return Code{Op: OP_OUT_CHAR, Ri: ri}
}

// MakeCodeHalt creates a halt.
func MakeCodeHalt() Code {
	return Code{Op: OP_HALT}
}

// MakeCodeOutInt creates a signed decimal output of r[ri].
func MakeCodeOutInt(ri uint8) Code {
	return Code{Op: OP_OUT_INT, Ri: ri}
}

// MakeCodeJump creates an immediate load into the IP.
func MakeCodeJump(address int16) Code {
	return MakeCodeLoadImmediate(IP, address)
}

// Registers returns the register indices referenced by the instruction.
func (code Code) Registers() []uint8 {
	switch code.Op {
	case OP_COND_MOVE, OP_SUB:
		return []uint8{code.Ri, code.Rj, code.Rk}
	case OP_STORE, OP_LOAD:
		return []uint8{code.Ri, code.Rj}
	case OP_LOAD_IMMEDIATE, OP_OUT_CHAR, OP_OUT_INT:
		return []uint8{code.Ri}
	}
	return nil
}

// decodeCode decodes the operand bytes following op.
// len(args) must be op.Len()-1.
func decodeCode(op Opcode, args []byte) (code Code) {
	code.Op = op
	switch op {
	case OP_COND_MOVE, OP_SUB:
		code.Ri, code.Rj, code.Rk = args[0], args[1], args[2]
	case OP_STORE, OP_LOAD:
		code.Ri, code.Rj = args[0], args[1]
	case OP_LOAD_IMMEDIATE:
		code.Ri = args[0]
		code.Imm = int16(binary.LittleEndian.Uint16(args[1:3]))
	case OP_OUT_CHAR, OP_OUT_INT:
		code.Ri = args[0]
	}
	return
}

// Bytes returns the binary encoding of the instruction.
// An undefined opcode encodes as its single opcode byte.
func (code Code) Bytes() (data []byte) {
	data = append(data, byte(code.Op))
	switch code.Op {
	case OP_COND_MOVE, OP_SUB:
		data = append(data, code.Ri, code.Rj, code.Rk)
	case OP_STORE, OP_LOAD:
		data = append(data, code.Ri, code.Rj)
	case OP_LOAD_IMMEDIATE:
		data = append(data, code.Ri)
		data = binary.LittleEndian.AppendUint16(data, uint16(code.Imm))
	case OP_OUT_CHAR, OP_OUT_INT:
		data = append(data, code.Ri)
	}
	return
}

// Encode concatenates the encodings of codes into a program image.
func Encode(codes ...Code) (image []byte) {
	for _, code := range codes {
		image = append(image, code.Bytes()...)
	}
	return
}

// Decode decodes the instruction at address in mem. The bounds and opcode
// checks match those of the machine's instruction fetch; register indices
// are not checked. On ErrInvalidInstruction, code.Op holds the bad byte.
func Decode(mem []byte, address int) (code Code, err error) {
	if address < 0 || address >= len(mem) {
		err = ErrInvalidMemoryAccess
		return
	}

	op := Opcode(mem[address])
	code.Op = op
	size := op.Len()
	if size == 0 {
		err = ErrInvalidInstruction
		return
	}

	if address+size > len(mem) {
		err = ErrInvalidMemoryAccess
		return
	}

	code = decodeCode(op, mem[address+1:address+size])
	return
}

// String returns the mnemonic representation of this instruction.
func (code Code) String() string {
	if !code.Op.Valid() {
		return fmt.Sprintf(".byte 0x%02x", uint8(code.Op))
	}

	words := []string{code.Op.String()}
	for _, reg := range code.Registers() {
		words = append(words, fmt.Sprintf("r%d", reg))
	}
	if code.Op == OP_LOAD_IMMEDIATE {
		words = append(words, fmt.Sprintf("%d", code.Imm))
	}

	return strings.Join(words, " ")
}
