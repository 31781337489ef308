// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.


// Package machine executes LC-3 machine words. Trap vectors x20 through x25
// are serviced natively so assembled programs run without an operating
// system image; any other vector jumps through the trap table.
package machine

import (
	"fmt"
	"io"

	"github.com/lassandro/lc3asm/pkg/encoding"
)

func (mc *MachineState) Reset() {
	*mc = MachineState{}

	mc.Program = MEMSPACE_USER
	mc.Procstat = FLAG_ZERO
	mc.Registers[6] = MEMSPACE_DEVICES
}

func (mc *Machine) Reset() {
	mc.State.Reset()
	mc.Halted = false
	mc.Steps = 0
}

// Load copies words into memory starting at origin.
func (mc *Machine) Load(origin uint16, words []uint16) error {
	if int(origin)+len(words) > len(mc.State.Memory) {
		return fmt.Errorf(
			"%#04x: segment of %d words exceeds memory", origin, len(words),
		)
	}

	copy(mc.State.Memory[origin:], words)

	return nil
}

// Run steps the machine until it halts, failing once maxSteps instructions
// have executed. A maxSteps of zero never gives up.
func (mc *Machine) Run(maxSteps uint64) error {
	for !mc.Halted {
		if maxSteps > 0 && mc.Steps >= maxSteps {
			return ErrStepLimit
		}

		if err := mc.Step(); err != nil {
			return err
		}
	}

	return nil
}

func (mc *Machine) setFlags(value uint16) {
	// Reset condition flags, but preserve privilege and priority bits
	mc.State.Procstat &= ^uint16(0x7)

	if value == 0 {
		mc.State.Procstat |= FLAG_ZERO
	} else if value>>15 == 1 {
		mc.State.Procstat |= FLAG_NEG
	} else {
		mc.State.Procstat |= FLAG_POS
	}
}

func (mc *Machine) pcOffset(instruction uint16, bits uint16) uint16 {
	return mc.State.Program +
		encoding.SignExtend(instruction&((1<<bits)-1), bits)
}

func (mc *Machine) Step() error {
	addr := mc.State.Program
	instruction := mc.State.Memory[addr]
	opcode := instruction >> 12

	mc.State.Program++
	mc.Steps++

	switch opcode {
	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ADD, OP_AND:
		dest := (instruction >> 9) & 0x7
		src1 := (instruction >> 6) & 0x7

		var operand uint16

		if (instruction>>5)&0x1 == 1 {
			operand = encoding.SignExtend(instruction&0x1F, 5)
		} else {
			operand = mc.State.Registers[instruction&0x7]
		}

		if opcode == OP_ADD {
			mc.State.Registers[dest] = mc.State.Registers[src1] + operand
		} else {
			mc.State.Registers[dest] = mc.State.Registers[src1] & operand
		}

		mc.setFlags(mc.State.Registers[dest])

	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_BR:
		flags := (instruction >> 9) & 0x7

		if flags&(mc.State.Procstat&0x7) != 0 {
			mc.State.Program = mc.pcOffset(instruction, 9)
		}

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// RET  |1100    |000  |111  |000000      | Return
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		mc.State.Program = mc.State.Registers[(instruction>>6)&0x7]

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JSR:
		target := mc.State.Registers[(instruction>>6)&0x7]

		if (instruction>>11)&0x1 == 1 {
			target = mc.pcOffset(instruction, 11)
		}

		mc.State.Registers[7] = mc.State.Program
		mc.State.Program = target

	// LD   |0010    |DR   |PCoffset9         | Load
	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD, OP_LDI, OP_LEA:
		dest := (instruction >> 9) & 0x7
		target := mc.pcOffset(instruction, 9)

		switch opcode {
		case OP_LD:
			mc.State.Registers[dest] = mc.State.Memory[target]
		case OP_LDI:
			mc.State.Registers[dest] = mc.State.Memory[mc.State.Memory[target]]
		case OP_LEA:
			mc.State.Registers[dest] = target
		}

		mc.setFlags(mc.State.Registers[dest])

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDR:
		dest := (instruction >> 9) & 0x7
		base := mc.State.Registers[(instruction>>6)&0x7]

		mc.State.Registers[dest] =
			mc.State.Memory[base+encoding.SignExtend(instruction&0x3F, 6)]

		mc.setFlags(mc.State.Registers[dest])

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_NOT:
		dest := (instruction >> 9) & 0x7
		src := (instruction >> 6) & 0x7

		mc.State.Registers[dest] = ^mc.State.Registers[src]

		mc.setFlags(mc.State.Registers[dest])

	// RTI  |1000    |000000000000            | Return from interrupt
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_RTI:
		if mc.State.Procstat&FLAG_USER != 0 {
			return fmt.Errorf("%#04x: %w", addr, ErrPrivilege)
		}

		stack := mc.State.Registers[6]

		mc.State.Program = mc.State.Memory[stack]
		mc.State.Procstat = mc.State.Memory[stack+1]
		mc.State.Registers[6] = stack + 2

	// ST   |0011    |SR   |PCoffset9         | Store
	// STI  |1011    |SR   |PCoffset9         | Store indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ST, OP_STI:
		src := (instruction >> 9) & 0x7
		target := mc.pcOffset(instruction, 9)

		if opcode == OP_STI {
			target = mc.State.Memory[target]
		}

		mc.State.Memory[target] = mc.State.Registers[src]

	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STR:
		src := (instruction >> 9) & 0x7
		base := mc.State.Registers[(instruction>>6)&0x7]

		mc.State.Memory[base+encoding.SignExtend(instruction&0x3F, 6)] =
			mc.State.Registers[src]

	// TRAP |1111    |0000   |trapvect8       | System call
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_TRAP:
		mc.State.Registers[7] = mc.State.Program

		return mc.trap(addr, instruction&0xFF)

	// RES  |1101    |                        | Reserved (illegal)
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	default:
		return &IllegalOpcodeError{addr, instruction}
	}

	return nil
}

func (mc *Machine) write(addr uint16, buffer []byte) error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	if _, err := mc.Devices.Display.Write(buffer); err != nil {
		return fmt.Errorf("%#04x: display: %w", addr, err)
	}

	return nil
}

func (mc *Machine) readKey(addr uint16) (uint16, error) {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		return 0, fmt.Errorf("%#04x: keyboard: %w", addr, io.EOF)
	}

	key, err := mc.Devices.Keyboard.ReadByte()

	if err != nil {
		return 0, fmt.Errorf("%#04x: keyboard: %w", addr, err)
	}

	return uint16(key), nil
}

func (mc *Machine) trap(addr uint16, vector uint16) error {
	var err error

	switch vector {
	case TRAP_GETC:
		mc.State.Registers[0], err = mc.readKey(addr)

	case TRAP_OUT:
		err = mc.write(addr, []byte{byte(mc.State.Registers[0])})

	case TRAP_PUTS:
		var buffer []byte

		for i := mc.State.Registers[0]; mc.State.Memory[i] != 0; i++ {
			buffer = append(buffer, byte(mc.State.Memory[i]))
		}

		err = mc.write(addr, buffer)

	case TRAP_IN:
		if err = mc.write(addr, []byte("Input a character> ")); err != nil {
			break
		}

		if mc.State.Registers[0], err = mc.readKey(addr); err != nil {
			break
		}

		err = mc.write(addr, []byte{byte(mc.State.Registers[0])})

	case TRAP_PUTSP:
		var buffer []byte

		for i := mc.State.Registers[0]; mc.State.Memory[i] != 0; i++ {
			word := mc.State.Memory[i]
			buffer = append(buffer, byte(word&0xFF))

			if high := byte(word >> 8); high != 0 {
				buffer = append(buffer, high)
			}
		}

		err = mc.write(addr, buffer)

	case TRAP_HALT:
		mc.Halted = true

	default:
		routine := mc.State.Memory[MEMSPACE_TRAP_TABLE|vector]

		if routine == 0 {
			return &UnknownTrapError{addr, vector}
		}

		mc.State.Program = routine
	}

	return err
}
