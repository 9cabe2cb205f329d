//go:build tinygo

// Package pico adapts a TinyGo machine.I2C peripheral to hal.Bus.
package pico

import (
	"machine"
)

// Bus implements hal.Bus on a TinyGo I2C peripheral.
type Bus struct {
	i2c *machine.I2C
}

// New wraps an I2C peripheral that has already been configured.
func New(i2c *machine.I2C) *Bus {
	return &Bus{i2c: i2c}
}

// Write sends w to addr.
func (obj *Bus) Write(addr uint8, w []byte) error {
	return obj.i2c.Tx(uint16(addr), w, nil)
}

// Read fills r from addr.
func (obj *Bus) Read(addr uint8, r []byte) error {
	return obj.i2c.Tx(uint16(addr), nil, r)
}

// WriteRead sends w then reads r with a repeated start.
func (obj *Bus) WriteRead(addr uint8, w []byte, r []byte) error {
	return obj.i2c.Tx(uint16(addr), w, r)
}
