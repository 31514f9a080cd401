package config

// ConfigSchema is the validated shape of the merged configuration.
type ConfigSchema struct {
	API    API    `mapstructure:"api" json:"api"`
	Log    Log    `mapstructure:"log" json:"log"`
	DBPath string `mapstructure:"dbPath" json:"dbPath" validate:"required"`
}

// API configures access to the Meridian platform backend. The token is
// injected into the streaming client explicitly; nothing reads it from
// shared HTTP client state.
type API struct {
	BaseURL string `mapstructure:"baseUrl" json:"baseUrl" validate:"required,url"`
	Token   string `mapstructure:"token" json:"token,omitempty"`
}

type Log struct {
	LogLevel string `mapstructure:"logLevel" json:"logLevel,omitempty" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	LogFile  string `mapstructure:"logFile" json:"logFile,omitempty"`
}
