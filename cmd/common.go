package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cvfuse/internal/ai"
	"github.com/spigell/cvfuse/internal/ai/gemini"
	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/fuse"
	"github.com/spigell/cvfuse/internal/logger"
	"github.com/spigell/cvfuse/internal/normalize"
	"github.com/spigell/cvfuse/internal/pipeline"
	"github.com/spigell/cvfuse/internal/secrets"
)

const stdinPath = "-"

var errOverwriteDeclined = errors.New("overwrite declined")

// confirmOverwrite asks before an existing output file is replaced.
var confirmOverwrite = func(path string) error {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Overwrite %s", path),
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return errOverwriteDeclined
		}
		return err
	}
	return nil
}

// setup builds the logger and reads the config. Any failure is fatal.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func readText(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func readJSON(path string) (any, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}

// writeRecord prints the record as indented JSON to stdout or to the output
// file. An existing file is replaced only after confirmation or with force.
func writeRecord(w io.Writer, rec cv.Record, output string, force bool) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	data = append(data, '\n')

	output = strings.TrimSpace(output)
	if output == "" {
		_, err := w.Write(data)
		return err
	}

	if _, err := os.Stat(output); err == nil && !force {
		if err := confirmOverwrite(output); err != nil {
			return err
		}
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return nil
}

func emit(logger *zap.Logger, config *Config, rec cv.Record) {
	err := writeRecord(os.Stdout, rec, config.Output, viper.GetBool("yes"))
	if errors.Is(err, errOverwriteDeclined) {
		logger.Info("exiting", zap.String("reason", "output file kept"))
		return
	}
	if err != nil {
		logger.Fatal("writing the record", zap.Error(err))
	}
	if config.Output != "" {
		logger.Info("record written", zap.String("filename", config.Output))
	}
}

func newNormalizer(config *Config) *normalize.Normalizer {
	return normalize.New(config.Normalize)
}

func newFuser(config *Config) *fuse.Fuser {
	return fuse.New(config.Fuse)
}

func pipelineConfig(config *Config) *pipeline.Config {
	return &pipeline.Config{
		AI: &pipeline.AIConfig{
			Enabled:  config.AI.Enabled,
			Provider: config.AI.Provider,
			Gemini: &pipeline.GeminiConfig{
				Model:        config.AI.Gemini.Model,
				MaxRetries:   config.AI.Gemini.MaxRetries,
				MaxLogLength: config.AI.Gemini.MaxLogLength,
			},
		},
	}
}

func newExtractor(ctx context.Context, cfg *AIConfig, locale string, log *zap.Logger) (ai.Extractor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or CVFUSE_GEMINI_API_KEY_FILE)", err)
	}

	aiLogger := logger.WithFields(
		logger.WithCommonFields(log, "gemini", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, aiLogger)
	if err != nil {
		return nil, err
	}

	extractor := gemini.NewExtractor(generator, cfg.Gemini.MaxLogLength, aiLogger)
	extractor.SetPromptOverrides(gemini.PromptOverrides{
		Locale:           locale,
		UserInstructions: cfg.UserInstructions,
	})

	return extractor, nil
}

// runPipeline executes the default stages and logs their status in debug mode.
func runPipeline(ctx context.Context, log *zap.Logger, config *Config, deps pipeline.Deps, state *pipeline.State) cv.Record {
	stages := pipeline.Default()
	if state.Primary == nil && deps.Extractor == nil {
		pipeline.DisableByName(stages, pipeline.StagePrimary, "no primary source configured")
	}

	deps.Logger = log
	deps.Normalizer = newNormalizer(config)
	deps.Fuser = newFuser(config)

	rec, err := pipeline.Run(ctx, pipelineConfig(config), deps, stages, state)
	if err != nil {
		log.Fatal("running the pipeline", zap.Error(err))
	}

	for _, status := range pipeline.Describe(stages) {
		log.Debug("stage status",
			zap.String(logger.FieldStage, status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return rec
}
