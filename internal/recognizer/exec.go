package recognizer

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mattn/go-shellwords"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/config"
)

type execService struct {
	cmd []string
	cfg config.RecognizerConfig
}

type execResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// NewExec wraps an external transcription command. The session's buffered
// audio is written to a temporary WAV file and the command's JSON stdout is
// taken as the terminal result.
func NewExec(cfg config.RecognizerConfig) (Service, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("parse recognizer command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("recognizer command is empty")
	}
	return &execService{cmd: args, cfg: cfg}, nil
}

func (r *execService) Begin(onResult func(Result)) (Session, error) {
	return &execSession{svc: r, onResult: onResult}, nil
}

type execSession struct {
	svc      *execService
	onResult func(Result)

	mu   sync.Mutex
	pcm  []byte
	done bool
}

func (s *execSession) Feed(pcm []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.pcm = append(s.pcm, pcm...)
}

func (s *execSession) EndInput() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	pcm := s.pcm
	s.mu.Unlock()

	go func() {
		text, confidence, err := s.svc.transcribe(pcm)
		if err != nil {
			s.onResult(Result{Err: err})
			return
		}
		s.onResult(Result{Text: text, Confidence: confidence, Final: true})
	}()
}

func (r *execService) transcribe(pcm []byte) (string, float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	file, err := os.CreateTemp(os.TempDir(), "spokenword_asr_*.wav")
	if err != nil {
		return "", 0, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if err := writePCMToWav(file, pcm, r.cfg.SampleRate, r.cfg.Channels); err != nil {
		return "", 0, err
	}

	args := append([]string{}, r.cmd...)
	base := args[0]
	cmdArgs := args[1:]
	cmdArgs = append(cmdArgs, "--audio", file.Name())
	if r.cfg.ModelPath != "" {
		cmdArgs = append(cmdArgs, "--model", r.cfg.ModelPath)
	}
	if r.cfg.Language != "" {
		cmdArgs = append(cmdArgs, "--language", r.cfg.Language)
	}

	command := exec.CommandContext(ctx, base, cmdArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", 0, fmt.Errorf("recognizer command failed: %w: %s", err, stderr.String())
	}

	var resp execResult
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return "", 0, fmt.Errorf("decode recognizer response: %w", err)
	}
	return resp.Text, resp.Confidence, nil
}

func writePCMToWav(file *os.File, pcm []byte, sampleRate int, channels int) error {
	if len(pcm)%2 != 0 {
		return fmt.Errorf("pcm payload not aligned")
	}
	buffer := &audio.IntBuffer{Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate}}
	samples := make([]int, len(pcm)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	buffer.Data = samples

	enc := wav.NewEncoder(file, sampleRate, 16, channels, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
