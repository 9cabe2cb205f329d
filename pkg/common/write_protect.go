package common

import (
	"errors"
	"fmt"
	"io"

	"github.com/warthog618/gpiod"
)

// WriteProtect drives the chip WP pin. WP high blocks writes to the
// non-volatile wiper and TCON copies.
type WriteProtect struct {
	chip io.Closer
	line outputLine
}

// outputLine is the part of *gpiod.Line used by WriteProtect.
type outputLine interface {
	SetValue(value int) error
	Close() error
}

// NewWriteProtect requests offset on gpioChip as an output and drives it low,
// enabling writes until Close.
func NewWriteProtect(gpioChip string, offset int) (*WriteProtect, error) {
	c, err := gpiod.NewChip(gpioChip, gpiod.WithConsumer("mcp4xxx"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GPIO chip: %w", err)
	}
	l, err := c.RequestLine(offset, gpiod.AsOutput(0))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to request WP GPIO line: %w", err)
	}
	return &WriteProtect{chip: c, line: l}, nil
}

// Close raises WP again and releases the line and the chip. Both are released
// even when raising WP fails.
func (obj *WriteProtect) Close() error {
	var errs []error
	if err := obj.line.SetValue(1); err != nil {
		errs = append(errs, fmt.Errorf("failed to set WP line: %w", err))
	}
	if err := obj.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close WP line: %w", err))
	}
	if err := obj.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close GPIO chip: %w", err))
	}
	return errors.Join(errs...)
}
