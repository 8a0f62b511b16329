package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultNodeURL  = "https://api.testnet.hiro.so"
	DefaultContract = "ST33Y8RCP74098JCSPW5QHHCD6QN4H3XS9E4PVW1G.Blackadam-vote-contract"
)

// NodeConfig describes the voting contract and how it is queried.
type NodeConfig struct {
	NodeURL         string
	Contract        string
	CountFunction   string
	PollFunction    string
	DefaultSender   string
	LookupTimeout   time.Duration
	PacingDelay     time.Duration
	BulkConcurrency int
	MaxPolls        uint64
}

func (c NodeConfig) Validate() error {
	var errs []error
	if c.NodeURL == "" {
		errs = append(errs, errors.New("node-url is required"))
	}
	if c.Contract == "" {
		errs = append(errs, errors.New("contract is required"))
	}
	if c.CountFunction == "" || c.PollFunction == "" {
		errs = append(errs, errors.New("count-function and poll-function are required"))
	}
	if c.LookupTimeout < 0 || c.PacingDelay < 0 {
		errs = append(errs, errors.New("lookup-timeout and pacing-delay must not be negative"))
	}
	if c.MaxPolls == 0 {
		errs = append(errs, errors.New("max-polls must be positive"))
	}
	if c.BulkConcurrency < 0 {
		errs = append(errs, errors.New("bulk-concurrency must not be negative"))
	}
	return errors.Join(errs...)
}

// newViper layers defaults, VOTERELAY_ env vars, bound flags and an optional config
// file. Without an explicit file, ./config.* is read if present.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("VOTERELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

func nodeDefaults() map[string]any {
	return map[string]any{
		"node-url":         DefaultNodeURL,
		"contract":         DefaultContract,
		"count-function":   "get-poll-count",
		"poll-function":    "get-poll",
		"lookup-timeout":   10 * time.Second,
		"pacing-delay":     150 * time.Millisecond,
		"bulk-concurrency": 0,
		"max-polls":        uint64(10000),
		"log-level":        "info",
	}
}

func readNode(v *viper.Viper) NodeConfig {
	return NodeConfig{
		NodeURL:         strings.TrimSpace(v.GetString("node-url")),
		Contract:        strings.TrimSpace(v.GetString("contract")),
		CountFunction:   v.GetString("count-function"),
		PollFunction:    v.GetString("poll-function"),
		DefaultSender:   strings.TrimSpace(v.GetString("default-sender")),
		LookupTimeout:   v.GetDuration("lookup-timeout"),
		PacingDelay:     v.GetDuration("pacing-delay"),
		BulkConcurrency: v.GetInt("bulk-concurrency"),
		MaxPolls:        v.GetUint64("max-polls"),
	}
}

func merge(maps ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
