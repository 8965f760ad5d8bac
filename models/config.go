package models

type EnvConfig struct {
	DBDriver   string
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	Caching    bool

	HTTPSProxy string
	HTTPProxy  string
	NoProxy    string

	ExtractorConfigPath string
	CookiesDirectory    string
	DebugDirectory      string
	DebugDump           bool

	Concurrency int
	LogLevel    string
}
