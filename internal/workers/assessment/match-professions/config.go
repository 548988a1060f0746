// internal/workers/assessment/match-professions/config.go
package matchprofessions

import "time"

type Config struct {
	TopN    int
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TopN:    10,
		Timeout: 30 * time.Second,
	}
}
