// Package usbi2c talks I2C through a Devantech USB-I2C serial adapter.
package usbi2c

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

const (
	DefaultBaud = 19200

	cmdSingle   byte = 0x53 // I2C_SGL: one byte, no register
	cmdMultiple byte = 0x54 // I2C_MUL: multi byte read, no register
	cmdOneAddr  byte = 0x55 // I2C_AD1: devices with a one byte register address

	// adapter buffer limit per transfer
	maxPayload = 60
)

// Bridge implements hal.Bus on top of the adapter's serial command set.
type Bridge struct {
	port io.ReadWriteCloser
}

// Open opens the adapter serial port, 8 data bits, no parity, two stop bits.
func Open(name string, baud int) (*Bridge, error) {
	config := &serial.Config{
		Name:        name,
		Baud:        baud,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop2,
		ReadTimeout: 500 * time.Millisecond,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port, err: %w", err)
	}
	return New(port), nil
}

// New wraps an already open adapter port.
func New(port io.ReadWriteCloser) *Bridge {
	return &Bridge{port: port}
}

// Close closes the serial port.
func (obj *Bridge) Close() error {
	return obj.port.Close()
}

// Write sends w to addr. A single byte goes out as I2C_SGL, longer buffers as
// I2C_AD1 with w[0] in the register slot.
func (obj *Bridge) Write(addr uint8, w []byte) error {
	var frame [4 + maxPayload]byte
	var n int
	switch {
	case len(w) == 0:
		return fmt.Errorf("empty write to device 0x%02x", addr)
	case len(w) == 1:
		frame[0], frame[1], frame[2] = cmdSingle, addr<<1, w[0]
		n = 3
	case len(w)-1 > maxPayload:
		return fmt.Errorf("write of %d bytes exceeds adapter limit", len(w))
	default:
		frame[0], frame[1], frame[2], frame[3] = cmdOneAddr, addr<<1, w[0], byte(len(w)-1)
		n = 4 + copy(frame[4:], w[1:])
	}

	if err := obj.send(frame[:n]); err != nil {
		return err
	}

	var status [1]byte
	if _, err := io.ReadFull(obj.port, status[:]); err != nil {
		return fmt.Errorf("failed to receive write status: %w", err)
	}
	if status[0] == 0 {
		return fmt.Errorf("device 0x%02x did not acknowledge write", addr)
	}
	return nil
}

// Read fills r from addr without sending a register address.
func (obj *Bridge) Read(addr uint8, r []byte) error {
	switch {
	case len(r) == 0:
		return nil
	case len(r) > maxPayload:
		return fmt.Errorf("read of %d bytes exceeds adapter limit", len(r))
	case len(r) == 1:
		if err := obj.send([]byte{cmdSingle, addr<<1 | 1}); err != nil {
			return err
		}
	default:
		if err := obj.send([]byte{cmdMultiple, addr<<1 | 1, byte(len(r))}); err != nil {
			return err
		}
	}
	return obj.receive(r)
}

// WriteRead sends the one byte w as register address and reads r after a
// repeated start. The adapter cannot send longer prefixes.
func (obj *Bridge) WriteRead(addr uint8, w []byte, r []byte) error {
	if len(w) != 1 {
		return fmt.Errorf("adapter supports a 1 byte write before read, got %d", len(w))
	}
	if len(r) == 0 || len(r) > maxPayload {
		return fmt.Errorf("read of %d bytes not supported by adapter", len(r))
	}
	if err := obj.send([]byte{cmdOneAddr, addr<<1 | 1, w[0], byte(len(r))}); err != nil {
		return err
	}
	return obj.receive(r)
}

func (obj *Bridge) send(frame []byte) error {
	if _, err := obj.port.Write(frame); err != nil {
		return fmt.Errorf("failed to send data, err: %w", err)
	}
	return nil
}

func (obj *Bridge) receive(r []byte) error {
	if _, err := io.ReadFull(obj.port, r); err != nil {
		return fmt.Errorf("failed to receive data: %w", err)
	}
	return nil
}
