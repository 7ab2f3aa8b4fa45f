package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/ai"
	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed vacancy_prompt.md
var vacancyPromptTemplate string

//go:embed resume_prompt.md
var resumePromptTemplate string

const defaultMaxLogLength = 200

// Extractor turns free text into structured extractions with Gemini.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int

	vacancyPrompt string
	resumePrompt  string
}

func NewExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator:     generator,
		logger:        logger,
		maxLogLen:     maxLogLength,
		vacancyPrompt: buildPrompt(vacancyPromptTemplate),
		resumePrompt:  buildPrompt(resumePromptTemplate),
	}
}

func (e *Extractor) ExtractVacancy(ctx context.Context, text string) (*ai.VacancyExtraction, error) {
	var out ai.VacancyExtraction
	if err := e.extract(ctx, "vacancy", e.vacancyPrompt, text, &out); err != nil {
		return nil, err
	}
	if out.MinExperienceMonths < 0 {
		out.MinExperienceMonths = 0
	}
	return &out, nil
}

func (e *Extractor) ExtractResume(ctx context.Context, text string) (*ai.ResumeExtraction, error) {
	var out ai.ResumeExtraction
	if err := e.extract(ctx, "resume", e.resumePrompt, text, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *Extractor) extract(ctx context.Context, kind, system, text string, out any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%s text must not be empty", kind)
	}

	e.logger.Debug("gemini extraction request",
		zap.String("kind", kind),
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, system, text)
	if err != nil {
		return err
	}

	e.logger.Debug("gemini extraction response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	if err := parseResponse(raw, out); err != nil {
		return fmt.Errorf("parse %s extraction: %w", kind, err)
	}
	return nil
}

func buildPrompt(template string) string {
	replacer := strings.NewReplacer(
		"{{SPECIALIZATIONS}}", strings.Join(domain.KnownSpecializations(), ", "),
		"{{LANGUAGES}}", strings.Join(domain.KnownLanguages(), ", "),
		"{{CURRENCIES}}", strings.Join(domain.KnownCurrencies(), ", "),
		"{{WORK_FORMATS}}", strings.Join(domain.KnownWorkFormats(), ", "),
	)
	return replacer.Replace(template)
}

// parseResponse decodes the model output into out. Numbers given as strings,
// floats for ints and similar drift are accepted.
func parseResponse(raw string, out any) error {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(data)
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
	raw = strings.Trim(raw, "`")
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start > 0 && end > start {
		raw = raw[start : end+1]
	}
	return strings.TrimSpace(raw)
}
