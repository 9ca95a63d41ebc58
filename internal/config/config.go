package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type Config struct {
	RuntimeName string           `yaml:"runtime_name"`
	Environment string           `yaml:"environment"`
	HTTP        HTTPConfig       `yaml:"http"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`
	Bus         BusConfig        `yaml:"bus"`
	Recognizer  RecognizerConfig `yaml:"recognizer"`
	Transcripts TranscriptConfig `yaml:"transcripts"`
	Status      StatusConfig     `yaml:"status"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

// RecognizerConfig drives both the recognition backend and the session
// rotation cadence. RotationIntervalMS must sit comfortably below the
// backend's hard per-session length limit and its request budget.
type RecognizerConfig struct {
	Mode               string `yaml:"mode"`
	Command            string `yaml:"command"`
	ModelPath          string `yaml:"model_path"`
	Language           string `yaml:"language"`
	SampleRate         int    `yaml:"sample_rate"`
	Channels           int    `yaml:"channels"`
	RotationIntervalMS int    `yaml:"rotation_interval_ms"`
}

type TranscriptConfig struct {
	Path          string `yaml:"path"`
	RetentionMode string `yaml:"retention_mode"`
	RetentionDays int    `yaml:"retention_days"`
	MaxSessions   int    `yaml:"max_sessions"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type StatusConfig struct {
	NodeID            string `yaml:"node_id"`
	HeartbeatInterval int    `yaml:"heartbeat_interval_ms"`
}

func Default() Config {
	return Config{
		RuntimeName: "spokenword-runtime",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		Recognizer: RecognizerConfig{
			Mode:               "mock",
			SampleRate:         16000,
			Channels:           1,
			RotationIntervalMS: 45000,
		},
		Transcripts: TranscriptConfig{
			Path:          "./data/spokenword-transcripts.db",
			RetentionMode: "session",
			RetentionDays: 30,
			MaxSessions:   10000,
		},
		Status: StatusConfig{
			NodeID:            "spokenword-node-1",
			HeartbeatInterval: 2000,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "SPOKENWORD_RUNTIME_NAME")
	overrideString(&cfg.Environment, "SPOKENWORD_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "SPOKENWORD_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "SPOKENWORD_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "SPOKENWORD_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "SPOKENWORD_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "SPOKENWORD_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "SPOKENWORD_TELEMETRY_PROMETHEUS_BIND")
	overrideBool(&cfg.Bus.Embedded, "SPOKENWORD_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "SPOKENWORD_BUS_PORT")
	overrideStringSlice(&cfg.Bus.Servers, "SPOKENWORD_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "SPOKENWORD_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "SPOKENWORD_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "SPOKENWORD_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "SPOKENWORD_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "SPOKENWORD_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.Recognizer.Mode, "SPOKENWORD_RECOGNIZER_MODE")
	overrideString(&cfg.Recognizer.Command, "SPOKENWORD_RECOGNIZER_COMMAND")
	overrideString(&cfg.Recognizer.ModelPath, "SPOKENWORD_RECOGNIZER_MODEL_PATH")
	overrideString(&cfg.Recognizer.Language, "SPOKENWORD_RECOGNIZER_LANGUAGE")
	overrideInt(&cfg.Recognizer.SampleRate, "SPOKENWORD_RECOGNIZER_SAMPLE_RATE")
	overrideInt(&cfg.Recognizer.Channels, "SPOKENWORD_RECOGNIZER_CHANNELS")
	overrideInt(&cfg.Recognizer.RotationIntervalMS, "SPOKENWORD_RECOGNIZER_ROTATION_INTERVAL_MS")
	overrideString(&cfg.Transcripts.Path, "SPOKENWORD_TRANSCRIPTS_PATH")
	overrideString(&cfg.Transcripts.RetentionMode, "SPOKENWORD_TRANSCRIPTS_RETENTION_MODE")
	overrideInt(&cfg.Transcripts.RetentionDays, "SPOKENWORD_TRANSCRIPTS_RETENTION_DAYS")
	overrideInt(&cfg.Transcripts.MaxSessions, "SPOKENWORD_TRANSCRIPTS_MAX_SESSIONS")
	overrideBool(&cfg.Transcripts.VacuumOnStart, "SPOKENWORD_TRANSCRIPTS_VACUUM_ON_START")
	overrideString(&cfg.Status.NodeID, "SPOKENWORD_STATUS_NODE_ID")
	overrideInt(&cfg.Status.HeartbeatInterval, "SPOKENWORD_STATUS_HEARTBEAT_INTERVAL_MS")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	switch cfg.Recognizer.Mode {
	case "mock", "exec":
	default:
		return errors.New("recognizer.mode must be one of mock|exec")
	}
	if cfg.Recognizer.Mode == "exec" && cfg.Recognizer.Command == "" {
		return errors.New("recognizer.command must be set when mode=exec")
	}
	if cfg.Recognizer.SampleRate <= 0 {
		return errors.New("recognizer.sample_rate must be positive")
	}
	if cfg.Recognizer.Channels <= 0 {
		return errors.New("recognizer.channels must be positive")
	}
	if cfg.Recognizer.RotationIntervalMS <= 0 {
		return errors.New("recognizer.rotation_interval_ms must be positive")
	}
	if cfg.Transcripts.Path == "" {
		return errors.New("transcripts.path must not be empty")
	}
	switch cfg.Transcripts.RetentionMode {
	case "ephemeral", "session", "persistent":
		// ok
	default:
		return errors.New("transcripts.retention_mode must be one of ephemeral|session|persistent")
	}
	if cfg.Transcripts.RetentionDays < 0 {
		return errors.New("transcripts.retention_days must be >= 0")
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	if cfg.Status.NodeID == "" {
		return errors.New("status.node_id must not be empty")
	}
	if cfg.Status.HeartbeatInterval <= 0 {
		return errors.New("status.heartbeat_interval_ms must be positive")
	}
	return nil
}
