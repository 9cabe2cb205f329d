package mcp4xxx

import "github.com/mbalug7/go-mcp4xxx/pkg/hal"

// BaseAddr is the base I2C address, set the lower 3 bits to match the device A[2:0] pins
const BaseAddr uint8 = 0b0101000

const (
	RegWiper0 hal.RegAddress = 0x00
	RegWiper1 hal.RegAddress = 0x01
	RegTcon   hal.RegAddress = 0x04
)

// WiperMask covers the 10 data bits a register transfer can carry.
const WiperMask uint16 = 0x3FF

// Addr returns the device address for the given A[2:0] pin strapping.
func Addr(pins uint8) uint8 {
	return BaseAddr | pins&0b111
}

// Wiper is the register model of a volatile wiper
type Wiper struct {
	reg   hal.RegAddress
	value uint16
}

// NewWiper returns a wiper model for reg, either RegWiper0 or RegWiper1.
func NewWiper(reg hal.RegAddress, value uint16) *Wiper {
	return &Wiper{reg: reg, value: value & WiperMask}
}

// GetAddress returns the wiper register address.
func (obj *Wiper) GetAddress() hal.RegAddress {
	return obj.reg
}

// GetValue returns the 10-bit wiper position.
func (obj *Wiper) GetValue() uint16 {
	return obj.value
}

// SetValue stores value truncated to 10 bits.
func (obj *Wiper) SetValue(value uint16) {
	obj.value = value & WiperMask
}
