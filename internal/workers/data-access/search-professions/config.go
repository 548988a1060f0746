// internal/workers/data-access/search-professions/config.go
package searchprofessions

import "time"

type Config struct {
	Index       string
	DefaultSize int
	MaxSize     int
	Timeout     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:       "professions",
		DefaultSize: 20,
		MaxSize:     100,
		Timeout:     30 * time.Second,
	}
}
