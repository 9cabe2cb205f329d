package mcp4xxx

import "github.com/mbalug7/go-mcp4xxx/pkg/hal"

// Op is the two bit operation field of a command byte
type Op uint8

const (
	OpWrite     Op = 0b00
	OpIncrement Op = 0b01
	OpDecrement Op = 0b10
	OpRead      Op = 0b11
)

func (obj Op) String() string {
	switch obj & opMask {
	case OpWrite:
		return "write"
	case OpIncrement:
		return "increment"
	case OpDecrement:
		return "decrement"
	default:
		return "read"
	}
}

// command byte layout, MSB first: [address:4][operation:2][data msb:2]
const (
	addrShift = 4
	addrMask  = 0x0F
	opShift   = 2
	opMask    = 0x03
	msbMask   = 0x03
)

// Command is an encoded command byte.
type Command uint8

// NewCommand packs reg, op and msb into a command byte. Every field is masked to
// its width, so stray high bits are dropped instead of spilling into the next field.
func NewCommand(reg hal.RegAddress, op Op, msb uint8) Command {
	return Command(0).WithAddress(reg).WithOp(op).WithMSB(msb)
}

// EncodeCommand returns the wire byte for reg, op and msb.
func EncodeCommand(reg hal.RegAddress, op Op, msb uint8) byte {
	return byte(NewCommand(reg, op, msb))
}

// Address returns the register address field.
func (obj Command) Address() hal.RegAddress {
	return hal.RegAddress(uint8(obj) >> addrShift & addrMask)
}

// WithAddress returns obj with the address field replaced by reg.
func (obj Command) WithAddress(reg hal.RegAddress) Command {
	return obj&^(addrMask<<addrShift) | Command(reg.ToByte()&addrMask)<<addrShift
}

// Op returns the operation field.
func (obj Command) Op() Op {
	return Op(uint8(obj) >> opShift & opMask)
}

// WithOp returns obj with the operation field replaced by op.
func (obj Command) WithOp(op Op) Command {
	return obj&^(opMask<<opShift) | Command(uint8(op)&opMask)<<opShift
}

// MSB returns bits 9:8 of the data word carried by the command.
func (obj Command) MSB() uint8 {
	return uint8(obj) & msbMask
}

// WithMSB returns obj with the data msb field replaced by msb.
func (obj Command) WithMSB(msb uint8) Command {
	return obj&^msbMask | Command(msb&msbMask)
}
