package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// API holds dispatch backend client settings.
type API struct {
	BaseURL string
	Timeout time.Duration
}

// Retry describes the retrying gateway behavior.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Notify holds notification pipeline settings.
type Notify struct {
	PollInterval  time.Duration
	DispatchDelay time.Duration
	BufferSize    int
}

// Kafka holds inbound push consumer settings. Empty brokers disable the
// consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Push holds push subscription settings.
type Push struct {
	PublicKey string
}

// Config stores settings for both the admin service and the courier agent.
type Config struct {
	Port    int
	Token   string
	API     API
	Gateway Retry
	Notify  Notify
	Kafka   Kafka
	Push    Push
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:    defaultPort,
		Token:   os.Getenv("DISPATCH_TOKEN"),
		API:     DefaultAPI(),
		Gateway: DefaultRetry(),
		Notify:  DefaultNotify(),
		Kafka:   DefaultKafka(),
		Push:    Push{PublicKey: os.Getenv("PUSH_PUBLIC_KEY")},
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Notify.PollInterval = d
		}
	}
	if v := os.Getenv("DISPATCH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Notify.DispatchDelay = d
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		cfg.Kafka.GroupID = v
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}

	fs := pflag.NewFlagSet("dispatch-admin", pflag.ContinueOnError)
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.API.BaseURL, "api-base-url", cfg.API.BaseURL, "dispatch backend base URL")
	fs.DurationVar(&cfg.Notify.PollInterval, "poll-interval", cfg.Notify.PollInterval, "current-delivery poll period")
	fs.DurationVar(&cfg.Notify.DispatchDelay, "dispatch-delay", cfg.Notify.DispatchDelay, "delay before broadcasting a new-order event")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.Notify.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval: %v", c.Notify.PollInterval)
	}
	if c.Notify.DispatchDelay < 0 {
		return fmt.Errorf("invalid dispatch delay: %v", c.Notify.DispatchDelay)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
