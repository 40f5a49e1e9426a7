package config

const (
	DefaultTimeout      = 30000 // milliseconds
	DefaultMaxRedirects = 10
	DefaultServerAddr   = ":8811"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		FollowRedirects:   BoolPtr(true),
		MaxRedirects:      DefaultMaxRedirects,
		ValidateSSL:       BoolPtr(true),
		AcceptAllStatuses: BoolPtr(false),
		Server:            ServerConfig{Addr: DefaultServerAddr},
		History:           HistoryConfig{Enabled: BoolPtr(false)},
		Log:               LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		NoColor:           BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	d := DefaultConfig()
	return c.Timeout == d.Timeout &&
		c.GetFollowRedirects() == d.GetFollowRedirects() &&
		c.MaxRedirects == d.MaxRedirects &&
		c.GetValidateSSL() == d.GetValidateSSL() &&
		c.GetAcceptAllStatuses() == d.GetAcceptAllStatuses() &&
		c.Proxy == d.Proxy &&
		len(c.Headers) == 0 &&
		len(c.Variables) == 0 &&
		c.Server == d.Server &&
		c.History.Path == d.History.Path &&
		c.GetHistoryEnabled() == d.GetHistoryEnabled() &&
		c.Log == d.Log &&
		c.GetNoColor() == d.GetNoColor()
}
