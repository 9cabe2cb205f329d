// Package mcp4xxxtest provides a simulated MCP4xxx chip that satisfies hal.Bus.
package mcp4xxxtest

import (
	"errors"
	"fmt"

	"github.com/mbalug7/go-mcp4xxx/pkg/hal"
	"github.com/mbalug7/go-mcp4xxx/pkg/mcp4xxx"
)

// ErrNack is returned for transfers addressed to another device.
var ErrNack = errors.New("no acknowledge")

// Transfer is one recorded bus transaction.
type Transfer struct {
	Op    string
	Addr  uint8
	Write []byte
	Read  []byte
}

// Chip stores whatever is written to its registers and replays it on read.
type Chip struct {
	Addr uint8
	Regs [16]uint16
	// Max is the full scale wiper value used by increment, 0x3FF when zero.
	Max uint16

	// ReadXor is applied to every register read reply.
	ReadXor uint16

	FailProbe error
	FailWrite error
	FailRead  error

	Transfers []Transfer
}

// New returns a chip answering on addr with all registers zero.
func New(addr uint8) *Chip {
	return &Chip{Addr: addr}
}

// Write decodes a write, increment or decrement command.
func (obj *Chip) Write(addr uint8, w []byte) error {
	obj.record("write", addr, w, nil)
	if addr != obj.Addr {
		return ErrNack
	}
	if obj.FailWrite != nil {
		return obj.FailWrite
	}
	if len(w) == 0 {
		return fmt.Errorf("empty write")
	}

	cmd := mcp4xxx.Command(w[0])
	reg := cmd.Address()
	switch cmd.Op() {
	case mcp4xxx.OpWrite:
		if len(w) != 2 {
			return fmt.Errorf("write command needs 2 bytes, got %d", len(w))
		}
		obj.Regs[reg] = uint16(cmd.MSB())<<8 | uint16(w[1])
	case mcp4xxx.OpIncrement:
		if obj.Regs[reg] < obj.max() {
			obj.Regs[reg]++
		}
	case mcp4xxx.OpDecrement:
		if obj.Regs[reg] > 0 {
			obj.Regs[reg]--
		}
	default:
		return fmt.Errorf("read command in plain write")
	}
	return nil
}

// Read acknowledges a plain read and fills r with 0xFF.
func (obj *Chip) Read(addr uint8, r []byte) error {
	if addr != obj.Addr {
		obj.record("read", addr, nil, r)
		return ErrNack
	}
	if obj.FailProbe != nil {
		obj.record("read", addr, nil, r)
		return obj.FailProbe
	}
	for i := range r {
		r[i] = 0xFF
	}
	obj.record("read", addr, nil, r)
	return nil
}

// WriteRead answers a read command with the register value XOR ReadXor.
func (obj *Chip) WriteRead(addr uint8, w []byte, r []byte) error {
	if addr != obj.Addr {
		obj.record("write_read", addr, w, r)
		return ErrNack
	}
	if obj.FailRead != nil {
		obj.record("write_read", addr, w, r)
		return obj.FailRead
	}
	if len(w) != 1 || len(r) != 2 {
		return fmt.Errorf("unexpected read geometry w=%d r=%d", len(w), len(r))
	}
	cmd := mcp4xxx.Command(w[0])
	if cmd.Op() != mcp4xxx.OpRead {
		return fmt.Errorf("write_read with %s command", cmd.Op())
	}
	v := obj.Regs[cmd.Address()] ^ obj.ReadXor
	r[0] = byte(v >> 8)
	r[1] = byte(v)
	obj.record("write_read", addr, w, r)
	return nil
}

// Reg returns the stored value of reg.
func (obj *Chip) Reg(reg hal.RegAddress) uint16 {
	return obj.Regs[reg]
}

func (obj *Chip) max() uint16 {
	if obj.Max == 0 {
		return mcp4xxx.WiperMask
	}
	return obj.Max
}

func (obj *Chip) record(op string, addr uint8, w, r []byte) {
	t := Transfer{Op: op, Addr: addr}
	if w != nil {
		t.Write = append([]byte(nil), w...)
	}
	if r != nil {
		t.Read = append([]byte(nil), r...)
	}
	obj.Transfers = append(obj.Transfers, t)
}
