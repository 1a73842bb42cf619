package config

var AppVersion = "DEVELOPMENT"

const (
	AppName       = "padshift"
	ProfilesDb    = "profiles.db"
	HideStateFile = "hiderules.toml"
	PidFile       = "padshift.pid"
	CfgFile       = "config.toml"
	UserDir       = "user"
)
