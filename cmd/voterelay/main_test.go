package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"voteRelay/internal/clarity"
	"voteRelay/internal/model"
)

func newDecodeCmd(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "decode", RunE: runDecode}
	cmd.Flags().Bool("count", false, "")
	cmd.SetOut(out)
	return cmd
}

func TestRunDecode(t *testing.T) {
	value, err := clarity.EncodeHex(clarity.ResponseOk{Inner: clarity.StringUTF8("hi")})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var out bytes.Buffer
	cmd := newDecodeCmd(&out)
	if err := runDecode(cmd, []string{value}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != `(ok u"hi")` {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRunDecodeCount(t *testing.T) {
	var out bytes.Buffer
	cmd := newDecodeCmd(&out)
	if err := cmd.Flags().Set("count", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := runDecode(cmd, []string{"0x0701000000000000000000000000000005"}); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "5" {
		t.Fatalf("unexpected output: %q", got)
	}

	if err := runDecode(cmd, []string{"0x0701zz"}); err == nil {
		t.Fatalf("expected error for invalid hex")
	}
}

func TestJSONLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "polls.jsonl")
	writer, err := newJSONLWriter(path, nil)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	poll := model.Poll{PollID: 2, Title: "Vote A"}
	entries := []model.PollEntry{{PollID: 2, Poll: &poll}, {PollID: 3, Error: "timeout"}}
	for _, e := range entries {
		if err := writer.Write(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"title":"Vote A"`) || lines[1] != `{"pollId":3,"error":"timeout"}` {
		t.Fatalf("unexpected output: %q", lines)
	}
}

func TestJSONLWriterStdout(t *testing.T) {
	var out bytes.Buffer
	writer, err := newJSONLWriter("-", &out)
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	if err := writer.Write(map[string]int{"a": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if out.String() != "{\"a\":1}\n" {
		t.Fatalf("unexpected stdout: %q", out.String())
	}
}
