package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/cvfuse/internal/ai"
	"github.com/spigell/cvfuse/internal/textutil"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength     = 200
	defaultLocale           = "en"
	maxUserInstructionRunes = 500
	maxLocaleRunes          = 16

	systemInstruction = "You convert résumé text into structured JSON. Follow the output schema exactly."
	sourceName        = "gemini"
)

// PromptOverrides customise the extraction prompt.
type PromptOverrides struct {
	Locale           string
	UserInstructions string
}

// Extractor asks Gemini for a structured candidate.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

var _ ai.Extractor = (*Extractor)(nil)

func NewExtractor(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// SetPromptOverrides replaces the prompt customisations.
func (e *Extractor) SetPromptOverrides(overrides PromptOverrides) {
	e.overrides = overrides
}

// Extract sends the text to Gemini and returns the decoded JSON object. The
// result is loosely shaped and is expected to go through the normalizer.
func (e *Extractor) Extract(ctx context.Context, text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ai.ErrEmptyText
	}
	if e.generator == nil {
		return nil, fmt.Errorf("gemini generator is not configured")
	}

	prompt := e.buildPrompt(text)

	e.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", textutil.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", textutil.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseResponse(raw)
}

func (e *Extractor) buildPrompt(text string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Locale: {{LOCALE}}\nUser instructions:\n{{USER_INSTRUCTIONS}}\n\nRésumé:\n{{CV_TEXT}}\n\nJSON Response:"
	}

	locale := sanitizeSingleLine(e.overrides.Locale, maxLocaleRunes)
	if locale == "" {
		locale = defaultLocale
	}

	prompt := strings.ReplaceAll(template, "{{LOCALE}}", locale)
	prompt = strings.ReplaceAll(prompt, "{{USER_INSTRUCTIONS}}", userInstructionsBlock(e.overrides.UserInstructions))
	prompt = strings.ReplaceAll(prompt, "{{CV_TEXT}}", strings.TrimSpace(text))
	return prompt
}

func sanitizeSingleLine(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	value = neutralizeBrackets(value)
	return truncateRunes(value, limit)
}

func userInstructionsBlock(value string) string {
	value = truncateRunes(strings.TrimSpace(value), maxUserInstructionRunes)

	var lines []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		lines = append(lines, "  - "+neutralizeBrackets(line))
	}

	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}

// neutralizeBrackets keeps user text from opening a new prompt section.
func neutralizeBrackets(value string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(value)
}

func truncateRunes(value string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	return string([]rune(value)[:limit])
}

func parseResponse(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	meta, _ := data["meta"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
		data["meta"] = meta
	}
	if source, _ := meta["source"].(string); strings.TrimSpace(source) == "" {
		meta["source"] = sourceName
	}

	return data, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}
