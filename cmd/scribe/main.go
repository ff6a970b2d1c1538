package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"meeting-scribe/config"
	"meeting-scribe/internal/application"
	"meeting-scribe/internal/domain"
	"meeting-scribe/internal/infra/audio"
	"meeting-scribe/internal/infra/ollama"
	"meeting-scribe/internal/infra/openai"
	"meeting-scribe/internal/infra/teams"
	"meeting-scribe/internal/infra/whispercpp"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "existing audio file to process instead of recording")
	duration := flag.Int("duration", 0, "recording duration in seconds (0 = ask)")
	tierFlag := flag.String("tier", "", "speech model tier (tiny, base, small, medium, large)")
	modelFlag := flag.String("model", "", "language model name")
	webhookFlag := flag.String("webhook", "", "webhook address for publishing action items")
	watchDir := flag.String("watch", "", "process audio files dropped into this directory")
	autoPublish := flag.Bool("auto-publish", false, "publish without prompting (watch mode only)")
	flag.Parse()

	// optional .env, same resolution rules as plain environment variables
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	// explicit flags take precedence over env and config file
	if *tierFlag != "" {
		cfg.Transcriber.Tier = *tierFlag
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid flag", "error", err)
			os.Exit(1)
		}
	}
	if *modelFlag != "" {
		cfg.LLM.Model = *modelFlag
	}
	if *webhookFlag != "" {
		cfg.Webhook.URL = *webhookFlag
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	transcriber, err := createTranscriber(cfg, logger)
	if err != nil {
		logger.Error("initializing transcriber", "error", err)
		os.Exit(1)
	}

	recorder := audio.NewDeviceRecorder(cfg.Audio.SampleRate, cfg.Audio.Channels, cfg.Audio.TempDir, logger)
	analyzer := ollama.NewClient(cfg.LLM.Host, cfg.LLM.Model)
	publisher := teams.NewClient()

	if *watchDir != "" {
		runWatchMode(ctx, *watchDir, cfg, recorder, transcriber, analyzer, publisher, *autoPublish, logger)
		return
	}

	ui := &terminalUI{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	pipeline := application.NewPipeline(recorder, transcriber, analyzer, publisher, ui, ui, logger)

	opts := application.RunOptions{
		Tier:       cfg.Tier(),
		Model:      cfg.LLM.Model,
		WebhookURL: cfg.Webhook.URL,
	}

	if *filePath != "" {
		artifact, err := audio.LoadArtifact(*filePath)
		if err != nil {
			logger.Error("loading audio file", "error", err)
			os.Exit(1)
		}
		opts.Artifact = &artifact
	} else {
		seconds := *duration
		if seconds <= 0 {
			seconds = ui.promptDuration()
		}
		opts.RecordDuration = time.Duration(seconds) * time.Second

		fmt.Fprintf(ui.out, "\nRecording for %d seconds. Speak into your microphone.\n", seconds)
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		// partial results were already shown as each stage completed
		os.Exit(1)
	}

	if result.Published {
		fmt.Fprintln(ui.out, "\nAction items posted to the channel.")
	}
	fmt.Fprintln(ui.out, "\nProcessing complete.")
}

func createTranscriber(cfg *config.Config, logger *slog.Logger) (application.Transcriber, error) {
	switch cfg.Transcriber.Engine {
	case "openai":
		return openai.NewTranscriber(cfg.Transcriber.OpenAIKey, cfg.Transcriber.Language)
	default:
		return whispercpp.New(
			cfg.Transcriber.BinaryPath,
			cfg.Transcriber.ModelDir,
			cfg.Transcriber.Language,
			cfg.Audio.TempDir,
			logger,
		)
	}
}

func runWatchMode(
	ctx context.Context,
	dir string,
	cfg *config.Config,
	recorder application.Recorder,
	transcriber application.Transcriber,
	analyzer application.Analyzer,
	publisher application.Publisher,
	autoPublish bool,
	logger *slog.Logger,
) {
	gate := &application.AutoGate{PublishApproved: autoPublish}
	if cfg.Webhook.URL != "" && !autoPublish {
		logger.Info("watch mode: publishing disabled, pass -auto-publish to enable")
	}

	pipeline := application.NewPipeline(recorder, transcriber, analyzer, publisher, gate, application.NoopPresenter{}, logger)

	handler := func(ctx context.Context, path string) error {
		artifact, err := audio.LoadArtifact(path)
		if err != nil {
			return err
		}
		_, err = pipeline.Run(ctx, application.RunOptions{
			Artifact:   &artifact,
			Tier:       cfg.Tier(),
			Model:      cfg.LLM.Model,
			WebhookURL: cfg.Webhook.URL,
		})
		return err
	}

	watcher, err := audio.NewDirWatcher(dir, handler, logger)
	if err != nil {
		logger.Error("starting watcher", "error", err)
		os.Exit(1)
	}
	defer watcher.Close()

	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("watcher stopped", "error", err)
		os.Exit(1)
	}
}

// terminalUI implements the pipeline's Gate and Presenter on stdin/stdout.
type terminalUI struct {
	in  *bufio.Reader
	out io.Writer
}

func (u *terminalUI) promptDuration() int {
	fmt.Fprint(u.out, "Enter recording duration in seconds: ")
	line, err := u.in.ReadString('\n')
	if err != nil {
		return 5
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || seconds <= 0 {
		fmt.Fprintln(u.out, "Invalid duration, defaulting to 5 seconds.")
		return 5
	}
	return seconds
}

func (u *terminalUI) ConfirmTranscription(_ context.Context, artifact domain.AudioArtifact) (bool, error) {
	fmt.Fprintf(u.out, "\nAudio ready: %s (%s)\n", artifact.Path, artifact.Duration.Round(time.Second))
	return u.promptYesNo("Transcribe this recording? (yes/no): ")
}

func (u *terminalUI) ConfirmPublish(_ context.Context, _ domain.AnalysisResult) (bool, error) {
	return u.promptYesNo("\nPost these action items to the channel? (yes/no): ")
}

func (u *terminalUI) ShowTranscript(t domain.Transcript) {
	fmt.Fprintln(u.out, "\n--- Transcript ---")
	if t.Empty() {
		fmt.Fprintln(u.out, "(no speech detected)")
	} else {
		fmt.Fprintln(u.out, t.Text)
	}
	fmt.Fprintln(u.out, "------------------")
}

func (u *terminalUI) ShowAnalysis(r domain.AnalysisResult) {
	fmt.Fprintln(u.out, "\n--- Summary ---")
	fmt.Fprintln(u.out, r.Summary)
	fmt.Fprintln(u.out, "\n--- Action Items ---")
	if len(r.ActionItems) == 0 {
		fmt.Fprintln(u.out, "(none found)")
	}
	for _, item := range r.ActionItems {
		fmt.Fprintf(u.out, "- %s\n", item)
	}
	fmt.Fprintln(u.out, "--------------------")
}

func (u *terminalUI) promptYesNo(question string) (bool, error) {
	fmt.Fprint(u.out, question)
	line, err := u.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "yes" || answer == "y", nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
