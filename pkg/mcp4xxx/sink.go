package mcp4xxx

import "github.com/mbalug7/go-mcp4xxx/pkg/hal"

// EventKind tells which transaction an Event reports.
type EventKind uint8

const (
	EventProbe EventKind = iota
	EventWrite
	EventRead
	EventMismatch
)

func (obj EventKind) String() string {
	switch obj {
	case EventProbe:
		return "probe"
	case EventWrite:
		return "write"
	case EventRead:
		return "read"
	case EventMismatch:
		return "mismatch"
	}
	return "unknown"
}

// Event describes one bus transaction outcome.
type Event struct {
	Kind EventKind
	Addr uint8
	Reg  hal.RegAddress
	// Data holds the first Len bytes sent (write) or received (probe, read).
	Data [2]byte
	Len  int
	// Value is the reassembled register value of a successful read.
	Value uint16
	// Wrote and Read are only set for EventMismatch.
	Wrote Tcon
	Read  Tcon
	// Err is the bus error of a failed transaction.
	Err error
}

// Bytes returns the transferred bytes.
func (obj *Event) Bytes() []byte {
	return obj.Data[:obj.Len]
}

// Sink receives diagnostic events. Emit must not call back into the Device.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ev Event)

// Emit calls obj(ev).
func (obj SinkFunc) Emit(ev Event) {
	obj(ev)
}

// Option configures a Device in New.
type Option func(obj *Device)

// WithSink routes diagnostic events to s.
func WithSink(s Sink) Option {
	return func(obj *Device) {
		obj.sink = s
	}
}
