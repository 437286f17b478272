package ioc

import (
	"github.com/spf13/viper"
	"github.com/wickmon/wickmon/internal/service/gate"
)

func InitGateService() *gate.Service {
	type Config struct {
		BaseURL string `mapstructure:"base_url"`
		WebURL  string `mapstructure:"web_url"`
		Settle  string `mapstructure:"settle"`
	}

	var cfg Config
	if err := viper.UnmarshalKey("exchange.gate", &cfg); err != nil {
		panic(err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.gateio.ws/api/v4"
	}
	if cfg.WebURL == "" {
		cfg.WebURL = "https://www.gate.com"
	}
	if cfg.Settle == "" {
		cfg.Settle = "usdt"
	}

	return gate.NewService(cfg.BaseURL, cfg.WebURL, cfg.Settle)
}
