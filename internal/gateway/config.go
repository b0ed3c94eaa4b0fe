package gateway

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"coupon-manager/internal/pkg/config"
)

// Config is the gateway deployable's own environment. It shares the
// database (for sms_templates) with the API but carries the Solapi
// credentials that must never reach the main service.
type Config struct {
	Server ServerConfig
	DB     config.DBConfig
	Log    config.LogConfig
	Solapi SolapiConfig
}

type ServerConfig struct {
	Port string `envconfig:"GATEWAY_PORT" default:"8081"`
}

// SolapiConfig fields default to empty on purpose: a gateway without
// credentials still boots and answers 503, which operators can tell
// apart from a provider rejection (502).
type SolapiConfig struct {
	APIKey     string        `envconfig:"SOLAPI_API_KEY" default:""`
	APISecret  string        `envconfig:"SOLAPI_API_SECRET" default:""`
	FromNumber string        `envconfig:"SOLAPI_FROM_NUMBER" default:""`
	SendURL    string        `envconfig:"SOLAPI_SEND_URL" default:"https://api.solapi.com/messages/v4/send-many/detail"`
	Timeout    time.Duration `envconfig:"SOLAPI_TIMEOUT" default:"10s"`
}

func (c SolapiConfig) Configured() bool {
	return c.APIKey != "" && c.APISecret != "" && c.FromNumber != ""
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process gateway env config: %w", err)
	}
	return cfg, nil
}
