package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mbalug7/go-mcp4xxx/pkg/config"
	"github.com/mbalug7/go-mcp4xxx/pkg/hal"
	"github.com/mbalug7/go-mcp4xxx/pkg/mcp4xxx"
	"github.com/mbalug7/go-mcp4xxx/pkg/mcp4xxx/mcp4xxxtest"
)

type runResult struct {
	out    string
	opened []config.Config
}

func run(t *testing.T, chip *mcp4xxxtest.Chip, args ...string) (runResult, error) {
	t.Helper()

	var res runResult
	prev := openBus
	openBus = func(cfg *config.Config) (hal.Bus, io.Closer, error) {
		res.opened = append(res.opened, *cfg)
		return chip, nil, nil
	}
	t.Cleanup(func() { openBus = prev })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	res.out = out.String()
	return res, err
}

func TestCfgFlagsMapping(t *testing.T) {
	tests := []struct {
		name  string
		flags cfgFlags
		want  mcp4xxx.Tcon
	}{
		{"none", cfgFlags{}, 0},
		{"all", cfgFlags{true, true, true, true, true, true, true, true}, mcp4xxx.R01},
		{"p1 only", cfgFlags{p1En: true, p1WEn: true, p1AEn: true, p1BEn: true}, mcp4xxx.R0ALL},
		{"p2 only", cfgFlags{p2En: true, p2WEn: true, p2AEn: true, p2BEn: true}, mcp4xxx.R1ALL},
		{"p1 wiper", cfgFlags{p1WEn: true}, mcp4xxx.R0W},
		{"p2 terminal b", cfgFlags{p2BEn: true}, mcp4xxx.R1B},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.tcon(); got != tt.want {
				t.Errorf("tcon() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	for _, arg := range []string{"0", "1"} {
		if _, err := parseIndex(arg); err != nil {
			t.Errorf("parseIndex(%q) error: %v", arg, err)
		}
	}
	_, err := parseIndex("2")
	if err == nil || err.Error() != "invalid index 2" {
		t.Errorf("parseIndex(2) error = %v, want invalid index 2", err)
	}
	if _, err := parseIndex("x"); err == nil {
		t.Error("parseIndex(x) succeeded")
	}
}

func TestSetCfgDefaults(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	if _, err := run(t, chip, "set-cfg"); err != nil {
		t.Fatalf("set-cfg: %v", err)
	}
	if got := chip.Reg(mcp4xxx.RegTcon); got != mcp4xxx.R01.Bits() {
		t.Errorf("TCON = 0x%03x, want 0x%03x", got, mcp4xxx.R01.Bits())
	}
}

func TestSetCfgDisableP2(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	_, err := run(t, chip, "set-cfg",
		"--p2-en=false", "--p2-w-en=false", "--p2-a-en=false", "--p2-b-en=false")
	if err != nil {
		t.Fatalf("set-cfg: %v", err)
	}
	if got := chip.Reg(mcp4xxx.RegTcon); got != 0x0F {
		t.Errorf("TCON = 0x%03x, want 0x00f", got)
	}
}

func TestSetCfgMismatch(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	chip.ReadXor = mcp4xxx.GCEN.Bits()
	_, err := run(t, chip, "set-cfg")
	if !mcp4xxx.IsConfigMismatch(err) {
		t.Fatalf("set-cfg error = %v, want configuration mismatch", err)
	}
}

func TestGetCfg(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	chip.Regs[mcp4xxx.RegTcon] = 0x0F
	res, err := run(t, chip, "get-cfg")
	if err != nil {
		t.Fatalf("get-cfg: %v", err)
	}
	if diff := cmp.Diff("0x00f R0HW | R0A | R0W | R0B\n", res.out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSetWiper(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	if _, err := run(t, chip, "set-wiper", "1", "300"); err != nil {
		t.Fatalf("set-wiper: %v", err)
	}
	if got := chip.Reg(mcp4xxx.RegWiper1); got != 300 {
		t.Errorf("wiper 1 = %d, want 300", got)
	}
	if got := chip.Reg(mcp4xxx.RegWiper0); got != 0 {
		t.Errorf("wiper 0 = %d, want untouched", got)
	}
}

func TestSetWiperTruncates(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	if _, err := run(t, chip, "set-wiper", "0", "0x4ff"); err != nil {
		t.Fatalf("set-wiper: %v", err)
	}
	if got := chip.Reg(mcp4xxx.RegWiper0); got != 0x0ff {
		t.Errorf("wiper 0 = 0x%03x, want 0x0ff", got)
	}
}

func TestSetWiperInvalidIndex(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	res, err := run(t, chip, "set-wiper", "2", "5")
	if err == nil || err.Error() != "invalid index 2" {
		t.Fatalf("set-wiper error = %v, want invalid index 2", err)
	}
	if len(res.opened) != 0 {
		t.Error("bus opened for an invalid index")
	}
}

func TestGetWiper(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	chip.Regs[mcp4xxx.RegWiper0] = 0x155
	res, err := run(t, chip, "get-wiper", "0")
	if err != nil {
		t.Fatalf("get-wiper: %v", err)
	}
	if res.out != "341\n" {
		t.Errorf("output = %q, want %q", res.out, "341\n")
	}
}

func TestStep(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	chip.Regs[mcp4xxx.RegWiper1] = 7
	if _, err := run(t, chip, "inc", "1"); err != nil {
		t.Fatalf("inc: %v", err)
	}
	if got := chip.Reg(mcp4xxx.RegWiper1); got != 8 {
		t.Errorf("after inc wiper 1 = %d, want 8", got)
	}
	if _, err := run(t, chip, "dec", "1"); err != nil {
		t.Fatalf("dec: %v", err)
	}
	if _, err := run(t, chip, "dec", "1"); err != nil {
		t.Fatalf("dec: %v", err)
	}
	if got := chip.Reg(mcp4xxx.RegWiper1); got != 6 {
		t.Errorf("after dec wiper 1 = %d, want 6", got)
	}
}

func TestProbeFailure(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	chip.FailProbe = errors.New("bus stuck")
	_, err := run(t, chip, "get-cfg")
	if !mcp4xxx.IsTransport(err) {
		t.Fatalf("get-cfg error = %v, want transport error", err)
	}
}

func TestWrongAddress(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.Addr(3))
	_, err := run(t, chip, "get-cfg")
	if !errors.Is(err, mcp4xxxtest.ErrNack) {
		t.Fatalf("get-cfg error = %v, want %v", err, mcp4xxxtest.ErrNack)
	}

	if _, err := run(t, chip, "--i2c-addr", "0x2b", "get-cfg"); err != nil {
		t.Fatalf("get-cfg at 0x2b: %v", err)
	}
}

func TestConfigFileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp4xxx.yaml")
	data := "transport: usbi2c\ndevice: /dev/ttyACM0\naddress: 42\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	chip := mcp4xxxtest.New(42)
	res, err := run(t, chip, "--config", path, "get-wiper", "1")
	if err != nil {
		t.Fatalf("get-wiper: %v", err)
	}
	want := config.Default()
	want.Transport = config.TransportUSBI2C
	want.Device = "/dev/ttyACM0"
	want.Address = 42
	want.LogLevel = "error"
	if diff := cmp.Diff([]config.Config{*want}, res.opened); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	chip = mcp4xxxtest.New(43)
	res, err = run(t, chip, "-c", path, "--i2c-addr", "43", "--i2c-dev", "/dev/ttyUSB1", "get-wiper", "1")
	if err != nil {
		t.Fatalf("get-wiper: %v", err)
	}
	if got := res.opened[0]; got.Address != 43 || got.Device != "/dev/ttyUSB1" {
		t.Errorf("overrides not applied: %+v", got)
	}
}

func TestInvalidFlagConfig(t *testing.T) {
	chip := mcp4xxxtest.New(mcp4xxx.BaseAddr)
	tests := [][]string{
		{"--transport", "spi", "get-cfg"},
		{"--i2c-addr", "0x7f", "get-cfg"},
		{"--wp-line", "4", "get-cfg"},
	}
	for _, args := range tests {
		res, err := run(t, chip, args...)
		if err == nil || !strings.Contains(err.Error(), "invalid config") {
			t.Errorf("%v: error = %v, want invalid config", args, err)
		}
		if len(res.opened) != 0 {
			t.Errorf("%v: bus opened", args)
		}
	}
}
