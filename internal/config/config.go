package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`

	HistoryLimit  int `env:"HISTORY_LIMIT"   envDefault:"100" validate:"min=1"`
	MaxNameLen    int `env:"MAX_NAME_LEN"    envDefault:"20"  validate:"min=1"`
	MaxMessageLen int `env:"MAX_MESSAGE_LEN" envDefault:"500" validate:"min=1"`

	TypingWindow      time.Duration `env:"TYPING_WINDOW"       envDefault:"3s"`
	RoomPurgeGrace    time.Duration `env:"ROOM_PURGE_GRACE"    envDefault:"5m"`
	RoomSweepInterval time.Duration `env:"ROOM_SWEEP_INTERVAL" envDefault:"10m"`
	RoomMaxIdle       time.Duration `env:"ROOM_MAX_IDLE"       envDefault:"1h"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
