package mcp4xxx

import (
	"strings"

	"github.com/mbalug7/go-mcp4xxx/pkg/hal"
)

// Tcon holds the TCON register flags.
//
// See datasheet REGISTER 4-1: TCON BITS (ADDRESS = 0x04).
type Tcon uint16

const (
	// R0B connects resistor 0 terminal B
	R0B Tcon = 1 << iota
	// R0W connects resistor 0 wiper
	R0W
	// R0A connects resistor 0 terminal A
	R0A
	// R0HW enables resistor 0 hardware control (1 for enabled)
	R0HW
	R1B
	R1W
	R1A
	R1HW
	// GCEN enables general call commands
	GCEN
)

const (
	// R0ALL enables every terminal of resistor 0
	R0ALL = R0HW | R0A | R0W | R0B
	// R1ALL enables every terminal of resistor 1
	R1ALL = R1HW | R1A | R1W | R1B
	R01   = R0ALL | R1ALL

	tconMask Tcon = 0x1FF
)

var tconNames = [...]struct {
	flag Tcon
	name string
}{
	{GCEN, "GCEN"},
	{R1HW, "R1HW"},
	{R1A, "R1A"},
	{R1W, "R1W"},
	{R1B, "R1B"},
	{R0HW, "R0HW"},
	{R0A, "R0A"},
	{R0W, "R0W"},
	{R0B, "R0B"},
}

// TconFromBits builds a Tcon from a raw register value. Bits above the 9 TCON
// bits are dropped.
func TconFromBits(bits uint16) Tcon {
	return Tcon(bits) & tconMask
}

// Bits returns the raw 9-bit register value.
func (obj Tcon) Bits() uint16 {
	return uint16(obj & tconMask)
}

// Contains reports whether every flag in f is set in obj.
func (obj Tcon) Contains(f Tcon) bool {
	return obj&f == f
}

// Union returns the flags set in either obj or o.
func (obj Tcon) Union(o Tcon) Tcon {
	return obj | o
}

// Intersect returns the flags set in both obj and o.
func (obj Tcon) Intersect(o Tcon) Tcon {
	return obj & o
}

// Equal compares every bit, including the ones outside the TCON register.
func (obj Tcon) Equal(o Tcon) bool {
	return obj == o
}

// Insert sets the flags in f.
func (obj *Tcon) Insert(f Tcon) {
	*obj |= f
}

// Remove clears the flags in f.
func (obj *Tcon) Remove(f Tcon) {
	*obj &^= f
}

// Set sets or clears f.
func (obj *Tcon) Set(f Tcon, on bool) {
	if on {
		obj.Insert(f)
		return
	}
	obj.Remove(f)
}

// String lists the set flags from GCEN down to R0B, separated by " | ".
func (obj Tcon) String() string {
	if obj == 0 {
		return "0"
	}
	var sb strings.Builder
	for _, n := range tconNames {
		if obj&n.flag == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(n.name)
	}
	return sb.String()
}

// hal.Register implementation

// GetAddress returns RegTcon.
func (obj *Tcon) GetAddress() hal.RegAddress {
	return RegTcon
}

// GetValue returns the raw register value.
func (obj *Tcon) GetValue() uint16 {
	return obj.Bits()
}

// SetValue loads a raw register value, dropping bits above the 9 TCON bits.
func (obj *Tcon) SetValue(value uint16) {
	*obj = TconFromBits(value)
}
