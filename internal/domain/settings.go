package domain

import "strings"

// Storage keys for the two settings slots.
const (
	SettingAPIKey     = "apiKey"
	SettingServerName = "serverName"
)

// Settings holds the staff device configuration entered by the user.
// An empty field means the value is not set; an empty APIKey means the
// device is unconfigured and cannot poll.
type Settings struct {
	APIKey     string `json:"apiKey"`
	ServerName string `json:"serverName"`
}

func (s Settings) Configured() bool {
	return s.APIKey != ""
}

// Normalize trims surrounding whitespace so that a value of only blanks is
// treated as unset.
func (s Settings) Normalize() Settings {
	return Settings{
		APIKey:     strings.TrimSpace(s.APIKey),
		ServerName: strings.TrimSpace(s.ServerName),
	}
}

// MaskedAPIKey hides all but the last four characters of the key.
func (s Settings) MaskedAPIKey() string {
	if len(s.APIKey) <= 4 {
		return strings.Repeat("*", len(s.APIKey))
	}
	return strings.Repeat("*", len(s.APIKey)-4) + s.APIKey[len(s.APIKey)-4:]
}
