// internal/workers/communication/notify-result/config.go
package notifyresult

import "time"

type Config struct {
	EmailEnabled  bool
	SMSEnabled    bool
	FromEmail     string
	AWSRegion     string
	ResultURLBase string
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
