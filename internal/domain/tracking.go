package domain

// DeviceType classifies the device a request came from.
type DeviceType string

const (
	DeviceDesktop DeviceType = "Desktop"
	DeviceMobile  DeviceType = "Mobile"
	DeviceTablet  DeviceType = "Tablet"
	DeviceUnknown DeviceType = "Unknown"
)

// Unknown is the sentinel for fields that could not be classified.
const Unknown = "Unknown"

// DeviceDescriptor is derived from the raw user-agent string. It is never
// persisted on its own; the recorders copy its fields into their rows.
type DeviceDescriptor struct {
	DeviceType DeviceType `json:"device_type"`
	Browser    string     `json:"browser"`
	OS         string     `json:"os"`
	UserAgent  string     `json:"user_agent"`
	DeviceName string     `json:"device_name"`
}

// Local is the sentinel value used for every location field when the client
// IP is loopback or inside a private range.
const Local = "Local"

// LocationDescriptor holds geolocation data for a client IP. A nil
// LocationDescriptor is a valid terminal state, not an error.
type LocationDescriptor struct {
	Country   string   `json:"country,omitempty"`
	City      string   `json:"city,omitempty"`
	Region    string   `json:"region,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Timezone  string   `json:"timezone,omitempty"`
}

// LocalLocation returns the sentinel descriptor for local-network clients.
func LocalLocation() *LocationDescriptor {
	return &LocationDescriptor{
		Country:  Local,
		City:     Local,
		Region:   Local,
		Timezone: Local,
	}
}

// IsLocal reports whether the descriptor is the local-network sentinel.
func (l *LocationDescriptor) IsLocal() bool {
	return l != nil && l.Country == Local
}

// TrackingInfo is the per-request enrichment record: resolved client IP,
// device classification and optional geolocation.
type TrackingInfo struct {
	IPAddress string              `json:"ip_address"`
	Device    DeviceDescriptor    `json:"device"`
	Location  *LocationDescriptor `json:"location,omitempty"`
}

// DefaultTrackingInfo is used for system-initiated actions where no request
// context exists.
func DefaultTrackingInfo() TrackingInfo {
	return TrackingInfo{
		IPAddress: "127.0.0.1",
		Device: DeviceDescriptor{
			DeviceType: DeviceUnknown,
			Browser:    Unknown,
			OS:         Unknown,
			UserAgent:  Unknown,
			DeviceName: "Unknown - Unknown (Unknown)",
		},
	}
}
