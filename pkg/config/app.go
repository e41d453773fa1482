package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName           = "marquee"
	UserDir           = "user"
	SettingsDbFile    = "settings.db"
	LogFile           = "core.log"
	CfgFile           = "config.toml"
	ApiRequestTimeout = 30 * time.Second
)
