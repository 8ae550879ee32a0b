package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cvfuse/internal/ai"
	"github.com/spigell/cvfuse/internal/cv"
)

const (
	StageHeuristic = "heuristic"
	StagePrimary   = "primary"
	StageFuse      = "fuse"
	StageSchema    = "schema"
)

type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

type heuristicStage struct {
	toggle
	chars int
}

// NewHeuristic creates the stage running the rule-based parser over the text.
func NewHeuristic() Stage {
	return &heuristicStage{}
}

func (st *heuristicStage) Name() string { return StageHeuristic }

func (st *heuristicStage) Validate(*Config) error { return nil }

func (st *heuristicStage) Apply(_ context.Context, deps Deps, s *State) (Step, error) {
	st.chars = len([]rune(s.Text))
	if strings.TrimSpace(s.Text) == "" {
		deps.Logger.Debug("no resume text; heuristic record left empty")
		s.Heuristic = cv.Empty()
		return Step{}, nil
	}

	s.Heuristic = deps.Normalizer.Normalize(s.Text)
	s.Result = s.Heuristic
	return StepOf(s.Heuristic), nil
}

func (st *heuristicStage) Status() Status {
	details := map[string]string{}
	if st.chars > 0 {
		details["text_length"] = strconv.Itoa(st.chars)
	}
	return Status{Name: st.Name(), Enabled: st.IsEnabled(), Reason: st.reason, Details: details}
}

type primaryStage struct {
	toggle
	config *AIConfig
	origin string
	failed string
}

// NewPrimary creates the stage that obtains the primary candidate, either
// from the caller or from the configured extractor.
func NewPrimary() Stage {
	return &primaryStage{}
}

func (st *primaryStage) Name() string { return StagePrimary }

func (st *primaryStage) Validate(cfg *Config) error {
	st.config = nil
	if cfg != nil {
		st.config = cfg.AI
	}
	if st.config == nil || !st.config.Enabled {
		return nil
	}
	if st.config.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai is enabled")
	}
	if strings.TrimSpace(st.config.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai is enabled")
	}
	return nil
}

func (st *primaryStage) Apply(ctx context.Context, deps Deps, s *State) (Step, error) {
	s.HasPrimary = false
	st.origin, st.failed = "", ""

	var input any
	switch {
	case s.Primary != nil:
		input = s.Primary
		st.origin = "input"
	case deps.Extractor == nil:
		deps.Logger.Info("primary extractor is not configured; using heuristic record only")
		return Step{}, nil
	default:
		data, err := deps.Extractor.Extract(ctx, s.Text)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Step{}, err
			}
			st.failed = err.Error()
			level := zap.WarnLevel
			if errors.Is(err, ai.ErrEmptyText) {
				level = zap.DebugLevel
			}
			deps.Logger.Log(level, "primary extraction failed; using heuristic record only", zap.Error(err))
			return Step{}, nil
		}
		input = data
		st.origin = "extractor"
	}

	s.PrimaryRecord = deps.Normalizer.Normalize(input)
	s.HasPrimary = true
	s.Result = s.PrimaryRecord
	return StepOf(s.PrimaryRecord), nil
}

func (st *primaryStage) Status() Status {
	details := map[string]string{}
	if st.origin != "" {
		details["origin"] = st.origin
	}
	if st.failed != "" {
		details["error"] = st.failed
	}
	if st.config != nil {
		details["ai_enabled"] = strconv.FormatBool(st.config.Enabled)
		if st.config.Provider != "" {
			details["provider"] = st.config.Provider
		}
		if st.config.Gemini != nil {
			details["model"] = st.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(st.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(st.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: st.Name(), Enabled: st.IsEnabled(), Reason: st.reason, Details: details}
}

type fuseStage struct {
	toggle
	mode string
}

// NewFuse creates the stage merging the primary and heuristic records.
func NewFuse() Stage {
	return &fuseStage{}
}

func (st *fuseStage) Name() string { return StageFuse }

func (st *fuseStage) Validate(*Config) error { return nil }

func (st *fuseStage) Apply(_ context.Context, deps Deps, s *State) (Step, error) {
	switch {
	case !s.HasPrimary:
		st.mode = "heuristic-only"
		s.Result = s.Heuristic
	case strings.TrimSpace(s.Text) == "":
		st.mode = "primary-only"
		s.Result = s.PrimaryRecord
	default:
		st.mode = "fused"
		s.Result = deps.Fuser.Fuse(s.PrimaryRecord, s.Heuristic)
	}

	deps.Logger.Debug("fuse mode", zap.String("mode", st.mode))
	for _, job := range s.Result.Experience {
		deps.Logger.Debug("fused job",
			zap.String("employer", job.Employer),
			zap.String("role", job.Role),
			zap.Strings("bullets", cv.Texts(job.Bullets)),
		)
	}
	return StepOf(s.Result), nil
}

func (st *fuseStage) Status() Status {
	details := map[string]string{}
	if st.mode != "" {
		details["mode"] = st.mode
	}
	return Status{Name: st.Name(), Enabled: st.IsEnabled(), Reason: st.reason, Details: details}
}

type schemaStage struct {
	toggle
}

// NewSchema creates the stage validating the result against the JSON schema.
func NewSchema() Stage {
	return &schemaStage{}
}

func (st *schemaStage) Name() string { return StageSchema }

func (st *schemaStage) Validate(*Config) error { return nil }

func (st *schemaStage) Apply(_ context.Context, _ Deps, s *State) (Step, error) {
	if err := cv.Validate(s.Result); err != nil {
		return Step{}, err
	}
	return StepOf(s.Result), nil
}

func (st *schemaStage) Status() Status {
	return Status{Name: st.Name(), Enabled: st.IsEnabled(), Reason: st.reason}
}
