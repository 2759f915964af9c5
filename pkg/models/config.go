package models

// Config mirrors the optional config file (~/.publish-webtool/config.yaml).
// Every field can be overridden by the matching command line flag.
type Config struct {
	PortalURL    string `mapstructure:"portal-url" yaml:"portal-url,omitempty"`
	ServerURL    string `mapstructure:"server-url" yaml:"server-url,omitempty"`
	Username     string `mapstructure:"username" yaml:"username,omitempty"`
	Password     string `mapstructure:"password" yaml:"password,omitempty"`
	ClientID     string `mapstructure:"client-id" yaml:"client-id,omitempty"`
	ClientSecret string `mapstructure:"client-secret" yaml:"client-secret,omitempty"`
	Proxy        string `mapstructure:"proxy" yaml:"proxy,omitempty"`
	LogLevel     string `mapstructure:"loglevel" yaml:"loglevel,omitempty"`
}
