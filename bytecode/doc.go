// Package bytecode implements the loading, validation, and disassembly of
// compiled PEG programs: the string table, the charset table, and the
// 32-bit instruction stream itself.
//
// Instruction encoding. Every instruction is exactly one 32-bit word,
// stored big-endian in the image's code section:
//
//	 31 30 29 28 27 26 25 24 23 22 21 20 19 18 17 16 15 .. 0
//	+--+--+--+--+--+--------------------------------------+
//	|     opcode     |              operand                |
//	+--+--+--+--+--+--------------------------------------+
//	 <-- 5 bits -->  <----------- 27 bits ----------------->
//
// The 27-bit operand is reinterpreted according to the opcode's shape
// (see OperandShape):
//
//	none   operand is unused, always zero
//	u      operand(w)  = w & 0x07FFFFFF               (27-bit unsigned)
//	s      operand(w)  sign-extended from bit 26       (27-bit signed)
//	u1|u2  u1(w) = (w >> 16) & 0x7FF, u2(w) = w & 0xFFFF
//	addr   operand(w) is a 16-bit code address (same bits as u)
//
// This is an independent encoding from the variable-width, size-tagged
// immediates used elsewhere in this codebase's assembler/disassembler
// ancestry; the fixed 32-bit word keeps decode branch-free and makes
// every instruction's successor PC a simple +1 unless the opcode itself
// redirects control flow.
package bytecode
