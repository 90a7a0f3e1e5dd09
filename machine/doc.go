// Package machine implements a small register-based virtual machine.
//
// The machine has MEMORY_SIZE bytes of flat memory and NREGS 32-bit
// registers. Register 0 is the instruction pointer (IP); it is an
// ordinary register, so any instruction that writes register 0 is a jump.
//
// Instructions are one opcode byte followed by fixed-length operands:
//
//	1 cmov  ri rj rk   if r[rk] != 0 { r[ri] = r[rj] }
//	2 store ri rj      mem32[r[ri]] = r[rj]          (little-endian)
//	3 load  ri rj      r[ri] = mem32[r[rj]]          (little-endian)
//	4 loadi ri lo hi   r[ri] = int32(int16(hi<<8 | lo))
//	5 sub   ri rj rk   r[ri] = r[rj] - r[rk]         (wrapping)
//	6 outc  ri         write byte(r[ri])
//	7 halt
//	8 outi  ri         write decimal int32(r[ri])
//
// The IP is advanced past an instruction before it executes, so an
// instruction's own write to register 0 replaces the advance.
package machine
