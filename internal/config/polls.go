package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// PollsConfig holds configuration for the one-shot polls command.
type PollsConfig struct {
	Sender   string
	Mode     string
	Out      string
	Node     NodeConfig
	LogLevel string
}

// LoadPolls merges config file, environment variables, and flags into PollsConfig.
func LoadPolls(cfgFile string, flags *pflag.FlagSet) (PollsConfig, error) {
	v, err := newViper(cfgFile, flags, merge(nodeDefaults(), map[string]any{
		"mode": "bulk",
		"out":  "-",
	}))
	if err != nil {
		return PollsConfig{}, err
	}

	cfg := PollsConfig{
		Sender:   v.GetString("sender"),
		Mode:     v.GetString("mode"),
		Out:      v.GetString("out"),
		Node:     readNode(v),
		LogLevel: v.GetString("log-level"),
	}
	if cfg.Out == "" {
		return PollsConfig{}, fmt.Errorf("out is required")
	}
	return cfg, cfg.Node.Validate()
}
