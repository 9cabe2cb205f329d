package hal

// RegAddress is a device register address
type RegAddress uint8

// ToByte returns the address as sent on the wire
func (obj RegAddress) ToByte() byte {
	return byte(obj)
}

// Register is a device register model that can be stored to and loaded from the chip
type Register interface {
	GetAddress() RegAddress
	GetValue() uint16
	SetValue(value uint16)
}
