package common

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	i2cRdWr  = 0x0707 // I2C_RDWR ioctl
	i2cMRead = 0x0001 // I2C_M_RD message flag
)

// i2cMsg mirrors struct i2c_msg from linux/i2c.h
type i2cMsg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   unsafe.Pointer
}

// i2cRdWrData mirrors struct i2c_rdwr_ioctl_data
type i2cRdWrData struct {
	msgs  unsafe.Pointer
	nmsgs uint32
}

// I2CDev is a Linux /dev/i2c-N adapter. Every transfer is a single I2C_RDWR
// ioctl, so a write followed by a read keeps the bus with a repeated start.
type I2CDev struct {
	path string
	file *os.File
}

// OpenI2CDev opens an i2c-dev character device, e.g. /dev/i2c-1. The i2c-dev
// kernel module must be loaded.
func OpenI2CDev(path string) (*I2CDev, error) {
	f, err := os.OpenFile(path, unix.O_RDWR|unix.O_NOCTTY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c device %s: %w", path, err)
	}
	return &I2CDev{path: path, file: f}, nil
}

// Close closes the device file.
func (obj *I2CDev) Close() error {
	err := obj.file.Close()
	if err != nil {
		return fmt.Errorf("failed to close i2c device %s: %w", obj.path, err)
	}
	return nil
}

// Write sends w to addr in one message.
func (obj *I2CDev) Write(addr uint8, w []byte) error {
	return obj.transfer(addr, w, nil)
}

// Read fills r from addr in one message.
func (obj *I2CDev) Read(addr uint8, r []byte) error {
	return obj.transfer(addr, nil, r)
}

// WriteRead sends w and reads r in a single I2C_RDWR transfer.
func (obj *I2CDev) WriteRead(addr uint8, w []byte, r []byte) error {
	return obj.transfer(addr, w, r)
}

func (obj *I2CDev) transfer(addr uint8, w []byte, r []byte) error {
	var msgs [2]i2cMsg
	n := buildMessages(&msgs, addr, w, r)
	if n == 0 {
		return nil
	}

	data := i2cRdWrData{
		msgs:  unsafe.Pointer(&msgs[0]),
		nmsgs: uint32(n),
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, obj.file.Fd(), i2cRdWr, uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return fmt.Errorf("I2C transfer to 0x%02x on %s failed: %w", addr, obj.path, errno)
	}
	return nil
}

// buildMessages fills msgs with a write message for w and a read message for r,
// skipping empty buffers, and returns how many were used.
func buildMessages(msgs *[2]i2cMsg, addr uint8, w []byte, r []byte) int {
	n := 0
	if len(w) > 0 {
		msgs[n] = i2cMsg{addr: uint16(addr), len: uint16(len(w)), buf: unsafe.Pointer(&w[0])}
		n++
	}
	if len(r) > 0 {
		msgs[n] = i2cMsg{addr: uint16(addr), flags: i2cMRead, len: uint16(len(r)), buf: unsafe.Pointer(&r[0])}
		n++
	}
	return n
}
