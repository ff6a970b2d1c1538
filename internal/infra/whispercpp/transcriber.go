package whispercpp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"meeting-scribe/internal/domain"
)

// CommandRunner abstracts external process execution so tests can stand in
// for the whisper and ffmpeg binaries.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("command %s failed: %w: %s", name, err, stderrStr)
		}
		return "", fmt.Errorf("command %s failed: %w", name, err)
	}
	return stdout.String(), nil
}

// Transcriber runs a local whisper.cpp binary against model files named
// ggml-<tier>.bin in the model directory. Non-WAV input is converted to
// 16 kHz mono WAV with ffmpeg first.
type Transcriber struct {
	binaryPath string
	modelDir   string
	language   string
	tempDir    string
	runner     CommandRunner
	lookPath   func(string) (string, error)
	logger     *slog.Logger

	mu     sync.Mutex
	models map[domain.ModelTier]string // tier -> verified model path
}

// New checks the external dependencies up front so a missing binary surfaces
// as an actionable load error instead of failing deep inside a later call.
func New(binaryPath, modelDir, language, tempDir string, logger *slog.Logger) (*Transcriber, error) {
	t := &Transcriber{
		binaryPath: binaryPath,
		modelDir:   modelDir,
		language:   language,
		tempDir:    tempDir,
		runner:     execRunner{},
		lookPath:   exec.LookPath,
		logger:     logger,
		models:     make(map[domain.ModelTier]string),
	}
	if err := t.checkDependencies(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transcriber) checkDependencies() error {
	if strings.ContainsRune(t.binaryPath, os.PathSeparator) {
		if _, err := os.Stat(t.binaryPath); err != nil {
			return fmt.Errorf("%w: whisper binary %q not found (%w)", domain.ErrModelLoad, t.binaryPath, domain.ErrMissingDependency)
		}
	} else if _, err := t.lookPath(t.binaryPath); err != nil {
		return fmt.Errorf("%w: whisper binary %q not in PATH (%w)", domain.ErrModelLoad, t.binaryPath, domain.ErrMissingDependency)
	}

	if _, err := t.lookPath("ffmpeg"); err != nil {
		return fmt.Errorf("%w: ffmpeg not in PATH, needed to decode audio (%w)", domain.ErrModelLoad, domain.ErrMissingDependency)
	}

	if info, err := os.Stat(t.modelDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: model directory %q not found", domain.ErrModelLoad, t.modelDir)
	}

	return nil
}

func (t *Transcriber) Transcribe(ctx context.Context, artifact domain.AudioArtifact, tier domain.ModelTier) (domain.Transcript, error) {
	modelPath, err := t.modelPath(tier)
	if err != nil {
		return domain.Transcript{}, err
	}

	input := artifact.Path
	if strings.ToLower(filepath.Ext(input)) != ".wav" {
		converted, err := t.convert(ctx, input)
		if err != nil {
			return domain.Transcript{}, err
		}
		defer os.Remove(converted)
		input = converted
	}

	outputPrefix := filepath.Join(t.tempDir, "transcript-"+uuid.NewString())
	defer os.Remove(outputPrefix + ".txt")

	t.logger.Info("transcribing", "path", input, "tier", tier)

	args := []string{
		"-m", modelPath,
		"-f", input,
		"-l", t.language,
		"-otxt",
		"--output-file", outputPrefix,
	}
	if _, err := t.runner.Run(ctx, t.binaryPath, args...); err != nil {
		return domain.Transcript{}, fmt.Errorf("running whisper: %w", err)
	}

	text, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		if os.IsNotExist(err) {
			// whisper writes no output file for silence-only audio
			return domain.Transcript{Tier: tier}, nil
		}
		return domain.Transcript{}, fmt.Errorf("reading transcript output: %w", err)
	}

	return domain.Transcript{
		Text: strings.TrimSpace(string(text)),
		Tier: tier,
	}, nil
}

// modelPath validates the tier and caches the resolved model file, so
// repeated calls within one process skip the filesystem check.
func (t *Transcriber) modelPath(tier domain.ModelTier) (string, error) {
	if _, err := domain.ParseTier(string(tier)); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelLoad, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if path, ok := t.models[tier]; ok {
		return path, nil
	}

	path := filepath.Join(t.modelDir, fmt.Sprintf("ggml-%s.bin", tier))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: model file %q for tier %s not found", domain.ErrModelLoad, path, tier)
	}

	t.models[tier] = path
	return path, nil
}

// convert decodes any supported container to the 16 kHz mono PCM WAV whisper
// expects.
func (t *Transcriber) convert(ctx context.Context, input string) (string, error) {
	output := filepath.Join(t.tempDir, "converted-"+uuid.NewString()+".wav")

	args := []string{
		"-i", input,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		output,
	}
	if _, err := t.runner.Run(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("converting audio with ffmpeg: %w", err)
	}
	return output, nil
}
