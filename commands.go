package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mbalug7/go-mcp4xxx/pkg/hal"
	"github.com/mbalug7/go-mcp4xxx/pkg/mcp4xxx"
)

// potentiometer is what the commands need from a device.
type potentiometer interface {
	Configure(tcon mcp4xxx.Tcon) error
	ReadTcon() (mcp4xxx.Tcon, error)
	SetWiper0(val uint16) error
	SetWiper1(val uint16) error
	Wiper0() (uint16, error)
	Wiper1() (uint16, error)
	Increment(reg hal.RegAddress) error
	Decrement(reg hal.RegAddress) error
}

func withDevice(cmd *cobra.Command, fn func(p potentiometer, out io.Writer) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.dev, cmd.OutOrStdout())
}

// cfgFlags maps the P1/P2 channel flags to resistor 0/1
type cfgFlags struct {
	p1En, p1WEn, p1AEn, p1BEn bool
	p2En, p2WEn, p2AEn, p2BEn bool
}

func (f cfgFlags) tcon() mcp4xxx.Tcon {
	var tcon mcp4xxx.Tcon
	tcon.Set(mcp4xxx.R0HW, f.p1En)
	tcon.Set(mcp4xxx.R0W, f.p1WEn)
	tcon.Set(mcp4xxx.R0A, f.p1AEn)
	tcon.Set(mcp4xxx.R0B, f.p1BEn)
	tcon.Set(mcp4xxx.R1HW, f.p2En)
	tcon.Set(mcp4xxx.R1W, f.p2WEn)
	tcon.Set(mcp4xxx.R1A, f.p2AEn)
	tcon.Set(mcp4xxx.R1B, f.p2BEn)
	return tcon
}

func newSetCfgCmd() *cobra.Command {
	var f cfgFlags
	cmd := &cobra.Command{
		Use:   "set-cfg",
		Short: "Configure the wiper channels (TCON register)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDevice(cmd, func(p potentiometer, out io.Writer) error {
				return p.Configure(f.tcon())
			})
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&f.p1En, "p1-en", true, "P1 channel enable")
	fl.BoolVar(&f.p1WEn, "p1-w-en", true, "P1 wiper enable")
	fl.BoolVar(&f.p1AEn, "p1-a-en", true, "P1 terminal A enable")
	fl.BoolVar(&f.p1BEn, "p1-b-en", true, "P1 terminal B enable")
	fl.BoolVar(&f.p2En, "p2-en", true, "P2 channel enable")
	fl.BoolVar(&f.p2WEn, "p2-w-en", true, "P2 wiper enable")
	fl.BoolVar(&f.p2AEn, "p2-a-en", true, "P2 terminal A enable")
	fl.BoolVar(&f.p2BEn, "p2-b-en", true, "P2 terminal B enable")
	return cmd
}

func newGetCfgCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-cfg",
		Short: "Print the TCON register",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDevice(cmd, func(p potentiometer, out io.Writer) error {
				tcon, err := p.ReadTcon()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "0x%03x %s\n", tcon.Bits(), tcon)
				return err
			})
		},
	}
}

func newSetWiperCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-wiper <index> <value>",
		Short: "Set a wiper value",
		Long:  "Set a wiper value. Index is 0 or 1, value is a raw 10-bit register value; higher bits are dropped.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.ParseUint(args[1], 0, 16)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			return withDevice(cmd, func(p potentiometer, out io.Writer) error {
				return setWiper(p, index, uint16(value))
			})
		},
	}
}

func newGetWiperCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get-wiper <index>",
		Short: "Print a wiper value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withDevice(cmd, func(p potentiometer, out io.Writer) error {
				v, err := getWiper(p, index)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%d\n", v)
				return err
			})
		},
	}
}

func newStepCmd(use, short string, step func(potentiometer, hal.RegAddress) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <index>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withDevice(cmd, func(p potentiometer, out io.Writer) error {
				return step(p, wiperRegister(index))
			})
		},
	}
}

// parseIndex accepts the wiper channel index, 0 or 1.
func parseIndex(arg string) (uint8, error) {
	index, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", arg, err)
	}
	if index > 1 {
		return 0, fmt.Errorf("invalid index %d", index)
	}
	return uint8(index), nil
}

func wiperRegister(index uint8) hal.RegAddress {
	if index == 1 {
		return mcp4xxx.RegWiper1
	}
	return mcp4xxx.RegWiper0
}

func setWiper(p potentiometer, index uint8, value uint16) error {
	switch index {
	case 0:
		return p.SetWiper0(value)
	case 1:
		return p.SetWiper1(value)
	}
	return fmt.Errorf("invalid index %d", index)
}

func getWiper(p potentiometer, index uint8) (uint16, error) {
	switch index {
	case 0:
		return p.Wiper0()
	case 1:
		return p.Wiper1()
	}
	return 0, fmt.Errorf("invalid index %d", index)
}
