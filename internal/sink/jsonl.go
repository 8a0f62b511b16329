package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"voteRelay/internal/model"
)

// JSONLFeed appends every published event to a JSONL file as a model.EventRecord.
type JSONLFeed struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewJSONLFeed(path string) *JSONLFeed {
	return &JSONLFeed{path: path, now: time.Now}
}

func (f *JSONLFeed) Publish(_ context.Context, event model.ChainEvent) error {
	return f.WriteBatch([]model.EventRecord{model.NewEventRecord(event, f.now())})
}

// WriteBatch appends records as JSON lines in one open/flush cycle.
func (f *JSONLFeed) WriteBatch(records []model.EventRecord) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Dir(f.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create feed dir: %w", err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open feed file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal event record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write event record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush feed: %w", err)
	}
	return nil
}
