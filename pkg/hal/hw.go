package hal

// Bus is an I2C master able to address 7-bit devices.
// Implementations complete the whole transfer or return an error; timeouts and
// retries, if any, are their own business.
type Bus interface {
	// Write sends w to the device at addr in a single transfer.
	Write(addr uint8, w []byte) error
	// Read fills r from the device at addr.
	Read(addr uint8, r []byte) error
	// WriteRead sends w and then reads r using a repeated start.
	WriteRead(addr uint8, w []byte, r []byte) error
}
