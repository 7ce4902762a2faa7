package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the service. Values come from the
// environment (optionally seeded from .env by main), prefixed with MATCH_.
type Config struct {
	Port     string `envconfig:"PORT" default:"6677"`
	MongoURI string `envconfig:"MONGO_URI" required:"true"`
	MongoDB  string `envconfig:"MONGO_DB" default:"match_service"`

	RabbitURI      string `envconfig:"RABBITMQ_URI"`
	RabbitExchange string `envconfig:"RABBITMQ_EXCHANGE"`

	QuestionsPerMatch int           `envconfig:"QUESTIONS_PER_MATCH" default:"5"`
	QuestionTimeLimit time.Duration `envconfig:"QUESTION_TIME_LIMIT" default:"10s"`
	TickInterval      time.Duration `envconfig:"TICK_INTERVAL" default:"100ms"`
	InterQuestionGap  time.Duration `envconfig:"INTER_QUESTION_GAP" default:"2s"`
	MatchStartDelay   time.Duration `envconfig:"MATCH_START_DELAY" default:"1s"`

	MaxPoints       int     `envconfig:"MAX_POINTS" default:"1000"`
	TimeBonusWeight float64 `envconfig:"TIME_BONUS_WEIGHT" default:"0.5"`

	RateLimitEvents int           `envconfig:"RATE_LIMIT_EVENTS" default:"20"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MATCH", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
