package types

// DeviceType is the cloud-reported device family, e.g. "SMART.TAPOBULB".
type DeviceType string

// String returns the string form of the device type.
func (t DeviceType) String() string { return string(t) }

const (
	// DeviceTypePlug identifies smart plugs.
	DeviceTypePlug DeviceType = "SMART.TAPOPLUG"
	// DeviceTypeBulb identifies smart bulbs.
	DeviceTypeBulb DeviceType = "SMART.TAPOBULB"
)

// Supported reports whether the device type speaks the secure passthrough
// protocol. Only supported types carry base64-obfuscated text fields.
func (t DeviceType) Supported() bool {
	switch t {
	case DeviceTypePlug, DeviceTypeBulb:
		return true
	default:
		return false
	}
}

// MAC is a hardware address as reported by the cloud directory.
type MAC string

// String returns the string form of the hardware address.
func (m MAC) String() string { return string(m) }

// CloudCredentials are the account e-mail and password. They are passed per
// call and never persisted by the protocol packages.
type CloudCredentials struct {
	Email    string
	Password string
}
