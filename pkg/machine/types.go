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


package machine

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrStepLimit = errors.New("step limit reached before HALT")
	ErrPrivilege = errors.New("privileged instruction in user mode")
)

type DeviceHandler struct {
	Keyboard io.ByteReader
	Display  io.Writer
}

type MachineState struct {
	Registers [8]uint16
	Program   uint16
	Procstat  uint16
	Memory    [1 << 16]uint16
}

type Machine struct {
	Devices *DeviceHandler
	State   MachineState
	Halted  bool
	Steps   uint64
}

type IllegalOpcodeError struct {
	Addr        uint16
	Instruction uint16
}

func (err *IllegalOpcodeError) Error() string {
	return fmt.Sprintf(
		"%#04x: Illegal opcode %#04x", err.Addr, err.Instruction,
	)
}

type UnknownTrapError struct {
	Addr   uint16
	Vector uint16
}

func (err *UnknownTrapError) Error() string {
	return fmt.Sprintf(
		"%#04x: No routine for trap vector %#02x", err.Addr, err.Vector,
	)
}
