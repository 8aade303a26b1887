package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/aquavo/authcore/internal/flagx"
	"github.com/aquavo/authcore/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr           string         `json:"endpoint_addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	SessionTTL             timex.Duration `json:"session_ttl"`
	SessionCleanupInterval timex.Duration `json:"session_cleanup_interval"`
	SessionListLimit       int            `json:"session_list_limit"`
	ResetTokenTTL          timex.Duration `json:"reset_token_ttl"`
	SMTPAddr               string         `json:"smtp_addr"`
	SMTPUser               string         `json:"smtp_user"`
	SMTPPassword           string         `json:"smtp_password"`
	MailFrom               string         `json:"mail_from"`
	ResetBaseURL           string         `json:"reset_base_url"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags; if
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics: a half-applied configuration
// is worse than a failed start.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	config.SessionCleanupInterval = time.Duration(c.SessionCleanupInterval.Duration)
	config.SessionListLimit = c.SessionListLimit
	config.ResetTokenTTL = time.Duration(c.ResetTokenTTL.Duration)
	config.SMTPAddr = c.SMTPAddr
	config.SMTPUser = c.SMTPUser
	config.SMTPPassword = c.SMTPPassword
	config.MailFrom = c.MailFrom
	config.ResetBaseURL = c.ResetBaseURL
}
