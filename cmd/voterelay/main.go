package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"voteRelay/internal/chainhook"
	"voteRelay/internal/config"
	"voteRelay/internal/polls"
	"voteRelay/internal/server"
	"voteRelay/internal/sink"
	"voteRelay/internal/sink/postgres"
	"voteRelay/internal/stacks"
)

const shutdownTimeout = 15 * time.Second

func main() {
	root := &cobra.Command{
		Use:          "voterelay",
		Short:        "Chainhook webhook receiver and voting contract reader",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook and voting endpoints",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("webhook-secret", "", "bearer token expected on webhook deliveries")
	serveCmd.Flags().Int64("max-body-bytes", 5<<20, "maximum webhook body size")
	serveCmd.Flags().String("event-feed", "", "optional JSONL file receiving dispatched events")
	serveCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for pg_notify forwarding")
	serveCmd.Flags().String("pg-channel", "chainhook_events", "pg_notify channel")
	addNodeFlags(serveCmd.Flags())

	root.AddCommand(serveCmd)

	pollsCmd := &cobra.Command{
		Use:   "polls",
		Short: "Fetch every poll once and write it as JSONL",
		RunE:  runPolls,
	}

	pollsCmd.Flags().String("sender", "", "sender principal for read-only calls")
	pollsCmd.Flags().String("mode", "bulk", "aggregation mode (bulk, incremental)")
	pollsCmd.Flags().String("out", "-", "output JSONL path, - for stdout")
	addNodeFlags(pollsCmd.Flags())

	root.AddCommand(pollsCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode <hex>...",
		Short: "Decode hex-serialized Clarity values",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDecode,
	}

	decodeCmd.Flags().Bool("count", false, "decode as a poll count result")

	root.AddCommand(decodeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addNodeFlags(flags *pflag.FlagSet) {
	flags.String("node-url", config.DefaultNodeURL, "Stacks node API base URL")
	flags.String("contract", config.DefaultContract, "voting contract identifier")
	flags.String("count-function", "get-poll-count", "read-only poll count function")
	flags.String("poll-function", "get-poll", "read-only poll lookup function")
	flags.String("default-sender", "", "sender used when a request names none (defaults to the contract address)")
	flags.Duration("lookup-timeout", 10*time.Second, "timeout for each node call")
	flags.Duration("pacing-delay", 150*time.Millisecond, "delay between incremental lookups")
	flags.Int("bulk-concurrency", 0, "concurrent bulk lookups, 0 means one per poll")
	flags.Uint64("max-polls", 10000, "largest poll count that will be fetched")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, contract, err := newNodeClient(cfg.Node)
	if err != nil {
		return err
	}
	resolver, aggregator := newPollServices(client, contract, cfg.Node, logger)

	var sinks sink.Multi
	if cfg.EventFeed != "" {
		sinks = append(sinks, sink.NewJSONLFeed(cfg.EventFeed))
	}
	if cfg.PGDSN != "" {
		notifier, err := postgres.NewNotifier(ctx, cfg.PGDSN, cfg.PGChannel)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer notifier.Close()
		sinks = append(sinks, notifier)
	}

	hookLogger := logger.Named("chainhook")
	ingestor := chainhook.NewIngestor(
		chainhook.NewAuthGuard(cfg.WebhookSecret),
		chainhook.NewDefaultDispatcher(sinks, hookLogger),
		cfg.MaxBodyBytes,
		hookLogger,
	)

	router := server.NewRouter(server.Deps{
		Webhook:    ingestor,
		Resolver:   resolver,
		Aggregator: aggregator,
		Logger:     logger.Named("http"),
	})

	logger.Info("voterelay start",
		zap.String("listen", cfg.Listen),
		zap.String("node_url", cfg.Node.NodeURL),
		zap.String("contract", contract.String()),
		zap.Bool("event_feed", cfg.EventFeed != ""),
		zap.Bool("pg_notify", cfg.PGDSN != ""),
	)

	return server.ListenAndServe(ctx, cfg.Listen, router, shutdownTimeout, logger)
}

func newNodeClient(cfg config.NodeConfig) (*stacks.Client, stacks.ContractID, error) {
	contract, err := stacks.ParseContractID(cfg.Contract)
	if err != nil {
		return nil, stacks.ContractID{}, fmt.Errorf("contract: %w", err)
	}
	client, err := stacks.NewClient(cfg.NodeURL, &http.Client{Timeout: cfg.LookupTimeout})
	if err != nil {
		return nil, stacks.ContractID{}, err
	}
	return client, contract, nil
}

func newPollServices(client *stacks.Client, contract stacks.ContractID, cfg config.NodeConfig, logger *zap.Logger) (*polls.CountResolver, *polls.Aggregator) {
	pollLogger := logger.Named("polls")
	resolver := polls.NewCountResolver(client, contract, cfg.CountFunction, cfg.DefaultSender, pollLogger)
	aggregator := polls.NewAggregator(resolver, client, contract, polls.Config{
		PollFunction:    cfg.PollFunction,
		LookupTimeout:   cfg.LookupTimeout,
		PacingDelay:     cfg.PacingDelay,
		BulkConcurrency: cfg.BulkConcurrency,
		MaxPolls:        cfg.MaxPolls,
	}, pollLogger)
	return resolver, aggregator
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
