package store

import "time"

// Config selects and tunes the backends Open connects
type Config struct {
	// AppName is reported to postgres as application_name and to clickhouse as the default role
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig tunes the postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	LogSQL   bool
	// SlowQueryMs marks traced statements at or over it as slow
	SlowQueryMs int

	// ConnectRetries and PingTimeout bound the startup ping loop
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig tunes the clickhouse client
type CHConfig struct {
	Enabled bool
	URL     string
	LogSQL  bool

	ClientRole string
	ClientTag  string
}

const (
	defaultConnectRetries = 20
	defaultPingTimeout    = 3 * time.Second
)

func (c Config) withDefaults() Config {
	if c.PG.ConnectRetries <= 0 {
		c.PG.ConnectRetries = defaultConnectRetries
	}
	if c.PG.PingTimeout <= 0 {
		c.PG.PingTimeout = defaultPingTimeout
	}
	if c.CH.ClientRole == "" {
		c.CH.ClientRole = c.AppName
	}
	return c
}
