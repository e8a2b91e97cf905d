package types

// DirectoryEntry is one device record from the cloud device list.
type DirectoryEntry struct {
	DeviceType   DeviceType `json:"deviceType"`
	Role         int        `json:"role"`
	FwVer        string     `json:"fwVer"`
	AppServerURL string     `json:"appServerUrl"`
	DeviceRegion string     `json:"deviceRegion"`
	DeviceID     string     `json:"deviceId"`
	DeviceName   string     `json:"deviceName"`
	DeviceHwVer  string     `json:"deviceHwVer"`
	Alias        string     `json:"alias"`
	DeviceMAC    MAC        `json:"deviceMac"`
	OemID        string     `json:"oemId"`
	DeviceModel  string     `json:"deviceModel"`
	HwID         string     `json:"hwId"`
	FwID         string     `json:"fwId"`
	IsSameRegion bool       `json:"isSameRegion"`
	Status       int        `json:"status"`
}

// DeviceInfo is the decoded get_device_info result.
type DeviceInfo struct {
	DeviceID           string `json:"device_id"`
	FwVer              string `json:"fw_ver"`
	HwVer              string `json:"hw_ver"`
	Type               string `json:"type"`
	Model              string `json:"model"`
	MAC                string `json:"mac"`
	HwID               string `json:"hw_id"`
	FwID               string `json:"fw_id"`
	OemID              string `json:"oem_id"`
	Specs              string `json:"specs,omitempty"`
	Lang               string `json:"lang,omitempty"`
	DeviceOn           bool   `json:"device_on"`
	OnTime             int64  `json:"on_time"`
	Overheated         bool   `json:"overheated"`
	Nickname           string `json:"nickname"`
	Avatar             string `json:"avatar,omitempty"`
	TimeDiff           int    `json:"time_diff"`
	Region             string `json:"region,omitempty"`
	Longitude          int64  `json:"longitude,omitempty"`
	Latitude           int64  `json:"latitude,omitempty"`
	HasSetLocationInfo bool   `json:"has_set_location_info"`
	IP                 string `json:"ip"`
	SSID               string `json:"ssid"`
	SignalLevel        int    `json:"signal_level"`
	RSSI               int    `json:"rssi"`
	Brightness         int    `json:"brightness,omitempty"`
	Hue                int    `json:"hue,omitempty"`
	Saturation         int    `json:"saturation,omitempty"`
	ColorTemp          int    `json:"color_temp,omitempty"`
}

// Color is a resolved hue/saturation/temperature triple for set_device_info.
// A zero ColorTemp selects the hue/saturation colour mode.
type Color struct {
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	ColorTemp  int `json:"color_temp"`
}
