// MCP4xxx command line utility
//
// Configures the TCON register and moves the wipers of MCP454X/456X/464X/466X
// digital potentiometers over a Linux i2c-dev bus or a USB-I2C adapter.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mazen160/go-random"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mbalug7/go-mcp4xxx/pkg/common"
	"github.com/mbalug7/go-mcp4xxx/pkg/config"
	"github.com/mbalug7/go-mcp4xxx/pkg/hal"
	"github.com/mbalug7/go-mcp4xxx/pkg/logsink"
	"github.com/mbalug7/go-mcp4xxx/pkg/mcp4xxx"
	"github.com/mbalug7/go-mcp4xxx/pkg/usbi2c"
)

var (
	cfgFile   string
	transport string
	i2cDev    string
	i2cAddr   uint8
	logLevel  string
	baud      int
	wpChip    string
	wpLine    int
)

// openBus opens the transport named by cfg. The returned closer may be nil.
var openBus = func(cfg *config.Config) (hal.Bus, io.Closer, error) {
	switch cfg.Transport {
	case config.TransportUSBI2C:
		b, err := usbi2c.Open(cfg.Device, cfg.Baud)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	default:
		b, err := common.OpenI2CDev(cfg.Device)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	}
}

func main() {
	logrus.ErrorKey = "$error"
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mcp4xxx",
		Short:         "MCP4xxx digital potentiometer utility",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	pf.StringVar(&transport, "transport", config.TransportI2CDev, "bus transport: i2cdev or usbi2c")
	pf.StringVar(&i2cDev, "i2c-dev", "/dev/i2c-1", "I2C device used for connecting")
	pf.Uint8Var(&i2cAddr, "i2c-addr", mcp4xxx.BaseAddr, "I2C address for the target device")
	pf.StringVar(&logLevel, "log-level", "debug", "log level: trace, debug, info, warn, error")
	pf.IntVar(&baud, "baud", usbi2c.DefaultBaud, "serial baud rate of the usbi2c adapter")
	pf.StringVar(&wpChip, "wp-chip", "", "GPIO chip driving the WP pin, e.g. gpiochip0")
	pf.IntVar(&wpLine, "wp-line", -1, "GPIO line offset wired to the WP pin")

	rootCmd.AddCommand(
		newSetCfgCmd(),
		newGetCfgCmd(),
		newSetWiperCmd(),
		newGetWiperCmd(),
		newStepCmd("inc", "Step a wiper one position towards terminal A", potentiometer.Increment),
		newStepCmd("dec", "Step a wiper one position towards terminal B", potentiometer.Decrement),
	)
	return rootCmd
}

// loadConfig reads the config file and applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Transport = transport
	}
	if flags.Changed("i2c-dev") {
		cfg.Device = i2cDev
	}
	if flags.Changed("i2c-addr") {
		cfg.Address = i2cAddr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("baud") {
		cfg.Baud = baud
	}
	if flags.Changed("wp-chip") || flags.Changed("wp-line") {
		if cfg.WriteProtect == nil {
			cfg.WriteProtect = &config.WriteProtect{Line: wpLine}
		}
		if flags.Changed("wp-chip") {
			cfg.WriteProtect.Chip = wpChip
		}
		if flags.Changed("wp-line") {
			cfg.WriteProtect.Line = wpLine
		}
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type session struct {
	log     *logrus.Entry
	dev     *mcp4xxx.Device
	closers []io.Closer
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logsink.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	runID, err := random.String(8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}
	log = log.WithField("run", runID)
	log.Debugf("Config: %+v", *cfg)

	s := &session{log: log}

	bus, closer, err := openBus(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s bus %s: %w", cfg.Transport, cfg.Device, err)
	}
	if closer != nil {
		s.closers = append(s.closers, closer)
	}

	if cfg.WriteProtect != nil {
		wp, err := common.NewWriteProtect(cfg.WriteProtect.Chip, cfg.WriteProtect.Line)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, wp)
	}

	log.Debugf("Connecting to device 0x%02x", cfg.Address)
	s.dev, err = mcp4xxx.New(cfg.Address, bus, mcp4xxx.WithSink(logsink.New(log)))
	if err != nil {
		s.Close()
		return nil, err
	}
	log.Debug("Device connected!")

	return s, nil
}

// Close releases the bus and the WP line in reverse order of opening.
func (obj *session) Close() {
	for i := len(obj.closers) - 1; i >= 0; i-- {
		if err := obj.closers[i].Close(); err != nil {
			obj.log.WithError(err).Warn("close failed")
		}
	}
	obj.closers = nil
}
