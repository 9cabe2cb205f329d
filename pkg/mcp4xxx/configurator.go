package mcp4xxx

// ConfigBuilder stages a TCON update starting from the value currently on the
// chip, so a single terminal can be changed while every other bit is kept.
type ConfigBuilder struct {
	dev    *Device
	staged Tcon
}

// NewConfigBuilder reads the current TCON register of dev.
func NewConfigBuilder(dev *Device) (*ConfigBuilder, error) {
	tcon, err := dev.ReadTcon()
	if err != nil {
		return nil, err
	}
	return &ConfigBuilder{
		dev:    dev,
		staged: tcon,
	}, nil
}

// Enable sets the hardware control bit (RxHW) of resistor n.
func (obj *ConfigBuilder) Enable(n uint8, on bool) *ConfigBuilder {
	return obj.set(R0HW, n, on)
}

// Wiper connects or disconnects the wiper of resistor n.
func (obj *ConfigBuilder) Wiper(n uint8, on bool) *ConfigBuilder {
	return obj.set(R0W, n, on)
}

// TerminalA connects or disconnects terminal A of resistor n.
func (obj *ConfigBuilder) TerminalA(n uint8, on bool) *ConfigBuilder {
	return obj.set(R0A, n, on)
}

// TerminalB connects or disconnects terminal B of resistor n.
func (obj *ConfigBuilder) TerminalB(n uint8, on bool) *ConfigBuilder {
	return obj.set(R0B, n, on)
}

// GeneralCall enables general call commands
func (obj *ConfigBuilder) GeneralCall(on bool) *ConfigBuilder {
	obj.staged.Set(GCEN, on)
	return obj
}

// Tcon returns the staged register value.
func (obj *ConfigBuilder) Tcon() Tcon {
	return obj.staged
}

// Write configures the chip with the staged value and verifies the read-back.
func (obj *ConfigBuilder) Write() error {
	return obj.dev.Configure(obj.staged)
}

// set applies a resistor 0 flag shifted to resistor n. Resistors other than 0
// and 1 are ignored.
func (obj *ConfigBuilder) set(flag Tcon, n uint8, on bool) *ConfigBuilder {
	if n > 1 {
		return obj
	}
	obj.staged.Set(flag<<(4*n), on)
	return obj
}
