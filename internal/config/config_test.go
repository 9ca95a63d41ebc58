package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default server, got %v", cfg.Bus.Servers)
	}
	if cfg.Recognizer.Mode != "mock" {
		t.Fatalf("expected mock recognizer default, got %s", cfg.Recognizer.Mode)
	}
	if cfg.Recognizer.RotationIntervalMS != 45000 {
		t.Fatalf("expected default rotation interval 45000, got %d", cfg.Recognizer.RotationIntervalMS)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPOKENWORD_BUS_SERVERS", "nats://one:4222, nats://two:4222")
	t.Setenv("SPOKENWORD_BUS_USERNAME", "alice")
	t.Setenv("SPOKENWORD_BUS_PASSWORD", "secret")
	t.Setenv("SPOKENWORD_RECOGNIZER_ROTATION_INTERVAL_MS", "15000")
	t.Setenv("SPOKENWORD_RECOGNIZER_SAMPLE_RATE", "8000")
	t.Setenv("SPOKENWORD_TRANSCRIPTS_PATH", "./tmp.db")
	t.Setenv("SPOKENWORD_TRANSCRIPTS_RETENTION_MODE", "persistent")
	t.Setenv("SPOKENWORD_STATUS_NODE_ID", "test-node")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Bus.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %v", cfg.Bus.Servers)
	}
	if cfg.Bus.Username != "alice" || cfg.Bus.Password != "secret" {
		t.Fatalf("expected credentials override")
	}
	if cfg.Recognizer.RotationIntervalMS != 15000 {
		t.Fatalf("expected rotation interval override, got %d", cfg.Recognizer.RotationIntervalMS)
	}
	if cfg.Recognizer.SampleRate != 8000 {
		t.Fatalf("expected sample rate override, got %d", cfg.Recognizer.SampleRate)
	}
	if cfg.Transcripts.Path != "./tmp.db" {
		t.Fatalf("expected transcript path override")
	}
	if cfg.Transcripts.RetentionMode != "persistent" {
		t.Fatalf("expected retention mode override")
	}
	if cfg.Status.NodeID != "test-node" {
		t.Fatalf("expected node id override")
	}
}

func TestValidateRejectsExecWithoutCommand(t *testing.T) {
	t.Setenv("SPOKENWORD_RECOGNIZER_MODE", "exec")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for exec mode without command")
	}
}

func TestValidateRejectsNonPositiveRotationInterval(t *testing.T) {
	t.Setenv("SPOKENWORD_RECOGNIZER_ROTATION_INTERVAL_MS", "0")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for zero rotation interval")
	}
}

func TestValidateRejectsUnknownRetentionMode(t *testing.T) {
	t.Setenv("SPOKENWORD_TRANSCRIPTS_RETENTION_MODE", "forever")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for unknown retention mode")
	}
}
