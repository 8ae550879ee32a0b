// Package pipeline orchestrates the extraction stages around the core: the
// heuristic parse, the optional primary candidate, fusion and the schema
// check.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cvfuse/internal/ai"
	"github.com/spigell/cvfuse/internal/cv"
	"github.com/spigell/cvfuse/internal/fuse"
	"github.com/spigell/cvfuse/internal/logger"
	"github.com/spigell/cvfuse/internal/normalize"
)

// ErrNoInput is returned when neither text nor a primary candidate is given.
var ErrNoInput = errors.New("no resume text and no primary candidate")

// Stage represents a single pipeline step.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, s *State) (Step, error)
}

// Deps aggregates dependencies shared across all stages.
type Deps struct {
	Logger     *zap.Logger
	Extractor  ai.Extractor
	Normalizer *normalize.Normalizer
	Fuser      *fuse.Fuser
}

// Config contains settings consumed by the stages.
type Config struct {
	AI *AIConfig
}

// AIConfig stores the settings of the primary extractor.
type AIConfig struct {
	Enabled  bool
	Provider string
	Gemini   *GeminiConfig
}

// GeminiConfig stores Gemini provider configuration.
type GeminiConfig struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// State is threaded through the stages.
type State struct {
	// Text is the raw résumé text, the input of the heuristic stage.
	Text string
	// Source labels the input in logs (a file name or an hh resume title).
	Source string
	// Primary is a loosely shaped candidate supplied by the caller. When nil
	// the extractor is asked for one.
	Primary any

	Heuristic     cv.Record
	PrimaryRecord cv.Record
	HasPrimary    bool
	Result        cv.Record
}

// Step describes the record a stage produced.
type Step struct {
	Experience     int
	Education      int
	Skills         int
	Languages      int
	Certifications int
}

// StepOf counts the entries of a record.
func StepOf(r cv.Record) Step {
	return Step{
		Experience:     len(r.Experience),
		Education:      len(r.Education),
		Skills:         len(r.Skills),
		Languages:      len(r.Languages),
		Certifications: len(r.Certifications),
	}
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns the standard stage order.
func Default() []Stage {
	return []Stage{NewHeuristic(), NewPrimary(), NewFuse(), NewSchema()}
}

// DisableByName marks a stage with the provided name as disabled while keeping it in the list.
func DisableByName(stages []Stage, name, reason string) {
	for _, stage := range stages {
		if stage.Name() == name {
			stage.Disable(reason)
		}
	}
}

// Run executes the stages in order and returns the final record.
func Run(ctx context.Context, cfg *Config, deps Deps, stages []Stage, s *State) (cv.Record, error) {
	if s == nil || (strings.TrimSpace(s.Text) == "" && s.Primary == nil) {
		return cv.Record{}, ErrNoInput
	}

	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Normalizer == nil {
		deps.Normalizer = normalize.New(normalize.DefaultConfig())
	}
	if deps.Fuser == nil {
		deps.Fuser = fuse.New(fuse.DefaultConfig())
	}

	for _, stage := range stages {
		if !stage.IsEnabled() {
			continue
		}
		if err := stage.Validate(cfg); err != nil {
			return cv.Record{}, fmt.Errorf("%s: %w", stage.Name(), err)
		}
	}

	for _, stage := range stages {
		log := logger.WithStage(deps.Logger, stage.Name(), s.Source)
		if !stage.IsEnabled() {
			log.Info("stage disabled")
			continue
		}

		stageDeps := deps
		stageDeps.Logger = log

		info, err := stage.Apply(ctx, stageDeps, s)
		if err != nil {
			return cv.Record{}, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		log.Info("pipeline stage",
			zap.Int("experience", info.Experience),
			zap.Int("education", info.Education),
			zap.Int("skills", info.Skills),
			zap.Int("languages", info.Languages),
			zap.Int("certifications", info.Certifications),
		)
	}

	return s.Result.Clone(), nil
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		if reporter, ok := stage.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    stage.Name(),
			Enabled: stage.IsEnabled(),
		})
	}
	return statuses
}
