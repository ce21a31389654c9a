package configuration

import (
	"time"

	"github.com/fulldump/handlerdb/registry"
)

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Dir               string `usage:"registry directory, the home directory when empty"`
	Filename          string `usage:"registry file name inside dir"`
	MaxRecordSize     int64  `usage:"largest record or field the registry will read or write, in bytes"`
	EnableCompression bool   `usage:"gzip responses when the client accepts it"`
	HttpsEnabled      bool   `usage:"serve HTTPS"`
	HttpsSelfsigned   bool   `usage:"use a self signed certificate for HTTPS"`
	ApiKey            string `usage:"required X-Api-Key header, disabled when empty"`
	ApiSecret         string `usage:"required X-Api-Secret header, disabled when empty"`

	RedisAddr    string        `usage:"mirror registrations to this redis server, disabled when empty"`
	RedisPrefix  string        `usage:"prefix of the redis mirror keys"`
	RedisTimeout time.Duration `usage:"timeout of every redis mirror operation"`

	LogLevel  string `usage:"log level: trace | debug | info | warn | error"`
	LogFormat string `usage:"log format: text | json"`

	Version    bool `usage:"show version and exit"`
	ShowBanner bool `usage:"show big banner"`
	ShowConfig bool `usage:"print config"`
}

func Default() *Configuration {
	return &Configuration{
		HttpAddr:      "127.0.0.1:8080",
		Filename:      ".handlerdb",
		MaxRecordSize: registry.DefaultMaxRecordSize,
		RedisPrefix:   "handlerdb:",
		RedisTimeout:  2 * time.Second,
		LogLevel:      "info",
		LogFormat:     "text",
		ShowBanner:    true,
	}
}
