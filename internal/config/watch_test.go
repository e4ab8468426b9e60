package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aiday/internal/types"
)

type chanSink struct {
	applied chan types.Prompts
}

func (s *chanSink) Apply(p types.Prompts) {
	s.applied <- p
}

func TestWatchPromptsReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analyzer: v1\n"), 0644))

	sink := &chanSink{applied: make(chan types.Prompts, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = WatchPrompts(ctx, path, sink, zap.NewNop())
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("analyzer: v2\n"), 0644))

	select {
	case p := <-sink.applied:
		assert.Equal(t, "v2", p.Analyzer)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never delivered the reload")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatchPromptsIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analyzer: v1\n"), 0644))

	sink := &chanSink{applied: make(chan types.Prompts, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = WatchPrompts(ctx, path, sink, zap.NewNop()) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))

	select {
	case <-sink.applied:
		t.Fatal("writes to sibling files must not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
