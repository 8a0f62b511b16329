package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voteRelay/internal/config"
	"voteRelay/internal/polls"
)

func runPolls(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPolls(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mode, err := polls.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, contract, err := newNodeClient(cfg.Node)
	if err != nil {
		return err
	}
	_, aggregator := newPollServices(client, contract, cfg.Node, logger)

	list, err := aggregator.Aggregate(ctx, cfg.Sender, mode)
	if err != nil {
		return err
	}

	writer, err := newJSONLWriter(cfg.Out, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer writer.Close()

	failed := 0
	for _, entry := range list.Polls {
		if entry.Poll == nil {
			failed++
		}
		if err := writer.Write(entry); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	logger.Info("polls written",
		zap.String("mode", string(mode)),
		zap.Uint64("count", list.Count),
		zap.Int("written", len(list.Polls)),
		zap.Int("failed", failed),
		zap.String("out", cfg.Out),
	)
	return nil
}

type jsonlWriter struct {
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// newJSONLWriter truncates path, or writes to stdout when path is "-".
func newJSONLWriter(path string, stdout io.Writer) (*jsonlWriter, error) {
	if path == "-" {
		return &jsonlWriter{writer: bufio.NewWriter(stdout)}, nil
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return &jsonlWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (w *jsonlWriter) Write(value interface{}) error {
	line, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if _, err := w.writer.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	return nil
}

func (w *jsonlWriter) Close() error {
	if w == nil || w.closed {
		return nil
	}
	w.closed = true
	if err := w.writer.Flush(); err != nil {
		if w.file != nil {
			w.file.Close()
		}
		return err
	}
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
