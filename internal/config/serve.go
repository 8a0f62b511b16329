package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Listen        string
	WebhookSecret string
	MaxBodyBytes  int64
	EventFeed     string
	PGDSN         string
	PGChannel     string
	Node          NodeConfig
	LogLevel      string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
// The webhook secret is also read from CHAINHOOK_WEBHOOK_SECRET.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, merge(nodeDefaults(), map[string]any{
		"listen":         ":8080",
		"max-body-bytes": int64(5 << 20),
		"pg-channel":     "chainhook_events",
	}))
	if err != nil {
		return ServeConfig{}, err
	}
	if err := v.BindEnv("webhook-secret", "VOTERELAY_WEBHOOK_SECRET", "CHAINHOOK_WEBHOOK_SECRET"); err != nil {
		return ServeConfig{}, fmt.Errorf("bind env: %w", err)
	}

	cfg := ServeConfig{
		Listen:        v.GetString("listen"),
		WebhookSecret: v.GetString("webhook-secret"),
		MaxBodyBytes:  v.GetInt64("max-body-bytes"),
		EventFeed:     v.GetString("event-feed"),
		PGDSN:         v.GetString("pg-dsn"),
		PGChannel:     v.GetString("pg-channel"),
		Node:          readNode(v),
		LogLevel:      v.GetString("log-level"),
	}
	return cfg, nil
}

func (c ServeConfig) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen is required"))
	}
	if c.WebhookSecret == "" {
		errs = append(errs, errors.New("webhook-secret is required"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max-body-bytes must be positive"))
	}
	if c.PGDSN != "" && c.PGChannel == "" {
		errs = append(errs, errors.New("pg-channel is required with pg-dsn"))
	}
	if err := c.Node.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
