// Package mcp4xxx drives MCP454X/456X/464X/466X I2C digital potentiometers.
package mcp4xxx

import "github.com/mbalug7/go-mcp4xxx/pkg/hal"

// Device is a handle to one potentiometer chip. It owns the bus for its whole
// lifetime and does no locking; callers serialize access.
type Device struct {
	addr uint8
	bus  hal.Bus
	sink Sink

	// wire buffers, kept here so transfers do not allocate
	wr [2]byte
	rd [2]byte
}

// New probes the device at addr with a single byte read and returns a handle
// when it answers.
func New(addr uint8, bus hal.Bus, opts ...Option) (*Device, error) {
	obj := &Device{
		addr: addr,
		bus:  bus,
	}
	for _, opt := range opts {
		opt(obj)
	}

	if err := obj.bus.Read(obj.addr, obj.rd[:1]); err != nil {
		obj.emit(Event{Kind: EventProbe, Addr: obj.addr, Err: err})
		return nil, transportError(err)
	}
	obj.emit(Event{Kind: EventProbe, Addr: obj.addr, Data: [2]byte{obj.rd[0]}, Len: 1})

	return obj, nil
}

// Addr returns the 7-bit device address.
func (obj *Device) Addr() uint8 {
	return obj.addr
}

// Configure writes the TCON register and reads it back. Bits above the 9 TCON
// bits are dropped from tcon before writing; a read-back that differs from the
// written value in any bit fails with a configuration mismatch.
func (obj *Device) Configure(tcon Tcon) error {
	tcon = TconFromBits(tcon.Bits())
	if err := obj.Write(RegTcon, tcon.Bits()); err != nil {
		return err
	}

	got, err := obj.ReadTcon()
	if err != nil {
		return err
	}
	if !got.Equal(tcon) {
		obj.emit(Event{Kind: EventMismatch, Addr: obj.addr, Reg: RegTcon, Wrote: tcon, Read: got})
		return mismatchError()
	}
	return nil
}

// ReadTcon reads the TCON register.
func (obj *Device) ReadTcon() (Tcon, error) {
	v, err := obj.Read(RegTcon)
	if err != nil {
		return 0, err
	}
	return TconFromBits(v), nil
}

// SetWiper0 sets the wiper 0 position. Only the low 10 bits of val are sent.
func (obj *Device) SetWiper0(val uint16) error {
	return obj.Write(RegWiper0, val)
}

// SetWiper1 sets the wiper 1 position. Only the low 10 bits of val are sent.
func (obj *Device) SetWiper1(val uint16) error {
	return obj.Write(RegWiper1, val)
}

// Wiper0 reads the wiper 0 position.
func (obj *Device) Wiper0() (uint16, error) {
	return obj.wiper(RegWiper0)
}

// Wiper1 reads the wiper 1 position.
func (obj *Device) Wiper1() (uint16, error) {
	return obj.wiper(RegWiper1)
}

func (obj *Device) wiper(reg hal.RegAddress) (uint16, error) {
	v, err := obj.Read(reg)
	if err != nil {
		return 0, err
	}
	return v & WiperMask, nil
}

// Increment steps the wiper at reg one position towards terminal A.
func (obj *Device) Increment(reg hal.RegAddress) error {
	return obj.command(reg, OpIncrement)
}

// Decrement steps the wiper at reg one position towards terminal B.
func (obj *Device) Decrement(reg hal.RegAddress) error {
	return obj.command(reg, OpDecrement)
}

// Store writes a register model to the chip.
func (obj *Device) Store(r hal.Register) error {
	return obj.Write(r.GetAddress(), r.GetValue())
}

// Load refreshes a register model from the chip.
func (obj *Device) Load(r hal.Register) error {
	v, err := obj.Read(r.GetAddress())
	if err != nil {
		return err
	}
	r.SetValue(v)
	return nil
}

// Write writes data to a device register. Bits 9:8 travel in the command byte,
// bits 7:0 in the data byte; anything above bit 9 is dropped.
func (obj *Device) Write(reg hal.RegAddress, data uint16) error {
	obj.wr[0] = EncodeCommand(reg, OpWrite, uint8(data>>8))
	obj.wr[1] = byte(data)
	return obj.transmit(reg, obj.wr[:])
}

// Read reads a device register. The reply is big endian; only the low 10 bits
// carry register data.
func (obj *Device) Read(reg hal.RegAddress) (uint16, error) {
	obj.wr[0] = EncodeCommand(reg, OpRead, 0)

	if err := obj.bus.WriteRead(obj.addr, obj.wr[:1], obj.rd[:]); err != nil {
		obj.emit(Event{Kind: EventRead, Addr: obj.addr, Reg: reg, Err: err})
		return 0, transportError(err)
	}

	v := uint16(obj.rd[0])<<8 | uint16(obj.rd[1])
	obj.emit(Event{Kind: EventRead, Addr: obj.addr, Reg: reg, Data: obj.rd, Len: len(obj.rd), Value: v})
	return v, nil
}

func (obj *Device) command(reg hal.RegAddress, op Op) error {
	obj.wr[0] = EncodeCommand(reg, op, 0)
	return obj.transmit(reg, obj.wr[:1])
}

func (obj *Device) transmit(reg hal.RegAddress, wr []byte) error {
	ev := Event{Kind: EventWrite, Addr: obj.addr, Reg: reg}
	ev.Len = copy(ev.Data[:], wr)

	if err := obj.bus.Write(obj.addr, wr); err != nil {
		ev.Err = err
		obj.emit(ev)
		return transportError(err)
	}
	obj.emit(ev)
	return nil
}

func (obj *Device) emit(ev Event) {
	if obj.sink != nil {
		obj.sink.Emit(ev)
	}
}
