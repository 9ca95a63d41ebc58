package transcript

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/config"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOpenEphemeral(t *testing.T) {
	cfg := config.TranscriptConfig{RetentionMode: "ephemeral"}
	st, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.AppendFragment(context.Background(), "s1", "hello"); err != nil {
		t.Fatalf("append fragment on ephemeral store: %v", err)
	}
	fragments, err := st.ListFragments(context.Background(), 10)
	if err != nil {
		t.Fatalf("list fragments: %v", err)
	}
	if len(fragments) != 0 {
		t.Fatalf("ephemeral store should retain nothing, got %d", len(fragments))
	}
}

func TestAppendAndReassemble(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.TranscriptConfig{Path: filepath.Join(tmp, "transcripts.db"), RetentionMode: "session"}
	st, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open transcript store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	if err := st.AppendSession(ctx, "session-1", time.Now()); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := st.AppendFragment(ctx, "session-1", "hello world"); err != nil {
		t.Fatalf("append fragment: %v", err)
	}
	if err := st.CloseSession(ctx, "session-1", time.Now()); err != nil {
		t.Fatalf("close session: %v", err)
	}
	if err := st.AppendSession(ctx, "session-2", time.Now()); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := st.AppendFragment(ctx, "session-2", "goodbye"); err != nil {
		t.Fatalf("append fragment: %v", err)
	}

	text, err := st.FullText(ctx, 10)
	if err != nil {
		t.Fatalf("full text: %v", err)
	}
	if text != "hello world goodbye" {
		t.Fatalf("unexpected transcript: %q", text)
	}
}

func TestPruneByDays(t *testing.T) {
	tmp := t.TempDir()
	cfg := config.TranscriptConfig{Path: filepath.Join(tmp, "transcripts.db"), RetentionMode: "persistent", RetentionDays: 1}
	st, err := Open(context.Background(), cfg, newLogger())
	if err != nil {
		t.Fatalf("open transcript store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	st.clock = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := st.AppendSession(ctx, "old-session", st.clock()); err != nil {
		t.Fatalf("append session: %v", err)
	}
	if err := st.AppendFragment(ctx, "old-session", "stale"); err != nil {
		t.Fatalf("append fragment: %v", err)
	}

	st.clock = func() time.Time { return time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC) }
	if err := st.Prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}

	fragments, err := st.ListFragments(ctx, 10)
	if err != nil {
		t.Fatalf("list fragments: %v", err)
	}
	if len(fragments) != 0 {
		t.Fatalf("expected old fragments pruned, got %d", len(fragments))
	}
}
