package command

import "tapoctl/internal/domain"

// Method tags.
const (
	MethodHandshake         = "handshake"
	MethodSecurePassthrough = "securePassthrough"
	MethodLoginDevice       = "login_device"
	MethodSetDeviceInfo     = "set_device_info"
	MethodGetDeviceInfo     = "get_device_info"
)

// Command is a device operation that can be sent through the passthrough
// channel.
type Command interface {
	Method() string
	Params() any
	sealed()
}

// Request is the {method, params} object placed inside every envelope.
type Request struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// Encode returns the wire object for cmd.
func Encode(cmd Command) Request {
	return Request{Method: cmd.Method(), Params: cmd.Params()}
}

// LoginDevice exchanges encoded credentials for a device token.
type LoginDevice struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (LoginDevice) Method() string { return MethodLoginDevice }
func (c LoginDevice) Params() any  { return c }
func (LoginDevice) sealed()        {}

// SetPower switches the device. Off is SetPower with DeviceOn false.
type SetPower struct {
	DeviceOn   bool `json:"device_on"`
	Transition int  `json:"transition"`
}

func (SetPower) Method() string { return MethodSetDeviceInfo }
func (c SetPower) Params() any  { return c }
func (SetPower) sealed()        {}

// SetBrightness sets the brightness percentage (1-100).
type SetBrightness struct {
	Brightness int `json:"brightness"`
	Transition int `json:"transition"`
}

func (SetBrightness) Method() string { return MethodSetDeviceInfo }
func (c SetBrightness) Params() any  { return c }
func (SetBrightness) sealed()        {}

// SetColorTemp sets the white temperature in Kelvin.
type SetColorTemp struct {
	ColorTemp  int `json:"color_temp"`
	Transition int `json:"transition"`
}

func (SetColorTemp) Method() string { return MethodSetDeviceInfo }
func (c SetColorTemp) Params() any  { return c }
func (SetColorTemp) sealed()        {}

// SetColor applies a resolved colour triple.
type SetColor struct {
	domain.Color
}

func (SetColor) Method() string { return MethodSetDeviceInfo }
func (c SetColor) Params() any  { return c.Color }
func (SetColor) sealed()        {}

// GetDeviceInfo queries the status snapshot.
type GetDeviceInfo struct{}

func (GetDeviceInfo) Method() string { return MethodGetDeviceInfo }
func (GetDeviceInfo) Params() any    { return struct{}{} }
func (GetDeviceInfo) sealed()        {}

var (
	_ Command = LoginDevice{}
	_ Command = SetPower{}
	_ Command = SetBrightness{}
	_ Command = SetColorTemp{}
	_ Command = SetColor{}
	_ Command = GetDeviceInfo{}
)
