package simconfig

// WdcAttrs are the connector attributes the simulator hands to a connector
// page on init.
type WdcAttrs struct {
	ConnectionName      string `json:"connectionName"`
	ConnectionData      string `json:"connectionData"`
	Username            string `json:"username"`
	Password            string `json:"password"`
	PlatformOS          string `json:"platformOS"`
	PlatformEdition     string `json:"platformEdition"`
	PlatformVersion     string `json:"platformVersion"`
	PlatformBuildNumber string `json:"platformBuildNumber"`
	AuthPurpose         string `json:"authPurpose"`
	Locale              string `json:"locale"`
}

const (
	DefaultAuthPurpose = "ephemeral"
	DefaultLocale      = "en-us"
)

// DefaultWdcAttrs returns the attribute record a fresh simulator starts with.
func DefaultWdcAttrs() WdcAttrs {
	return WdcAttrs{
		AuthPurpose: DefaultAuthPurpose,
		Locale:      DefaultLocale,
	}
}
