package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/borisdouon/ResumeBuilder-WebApp/internal/resume"
)

const (
	fallbackName         = "Your Name"
	fallbackSummaryRunes = 300
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`[\+]?[(]?[0-9]{1,3}[)]?[-\s\.]?[(]?[0-9]{1,4}[)]?[-\s\.]?[0-9]{1,4}[-\s\.]?[0-9]{1,9}`)

	errMissingFactory = errors.New("assist: factory is required")
	noOpLogger        = zap.NewNop()
)

// ParseResult is the partial document recovered from free text.
type ParseResult struct {
	Content resume.Content `json:"content"`
	// Fallback reports that the pattern extractor produced Content.
	Fallback bool `json:"fallback"`
}

// Match is the outcome of comparing a resume with a job description.
type Match struct {
	Score       int      `json:"score"`
	Strengths   []string `json:"strengths"`
	Gaps        []string `json:"gaps"`
	Suggestions []string `json:"suggestions"`
}

type ServiceConfig struct {
	// Completer may be nil; every model-backed operation then reports
	// ErrNotConfigured and parsing uses the pattern extractor.
	Completer Completer
	Factory   *resume.Factory
	Logger    *zap.Logger
}

// Service wraps a Completer with resume-specific prompts and decoding.
type Service struct {
	completer Completer
	factory   *resume.Factory
	logger    *zap.Logger
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Factory == nil {
		return nil, errMissingFactory
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{completer: cfg.Completer, factory: cfg.Factory, logger: logger}, nil
}

// Configured reports whether a model provider is wired.
func (s *Service) Configured() bool {
	return s.completer != nil
}

// ParseFreeText turns pasted or extracted resume text into content. It never
// fails: any model or decoding problem falls back to pattern extraction.
func (s *Service) ParseFreeText(ctx context.Context, text string) ParseResult {
	content, err := s.parseWithModel(ctx, text)
	if err != nil {
		s.logger.Warn("ai parsing failed, using pattern extraction",
			zap.String("operation", "assist.parse"),
			zap.Error(err))
		content = fallbackContent(text)
		if assignErr := s.factory.AssignIDs(&content); assignErr != nil {
			s.logger.Error("assigning ids to parsed content failed", zap.Error(assignErr))
		}
		return ParseResult{Content: content, Fallback: true}
	}
	return ParseResult{Content: content}
}

func (s *Service) parseWithModel(ctx context.Context, text string) (resume.Content, error) {
	if strings.TrimSpace(text) == "" {
		return resume.Content{}, ErrEmptyInput
	}
	raw, err := s.complete(ctx, parsePrompt(text))
	if err != nil {
		return resume.Content{}, err
	}
	var parsed parsedResume
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return resume.Content{}, fmt.Errorf("decode parsed resume: %w", err)
	}
	content := parsed.content()
	if err := s.factory.AssignIDs(&content); err != nil {
		return resume.Content{}, err
	}
	return content, nil
}

// RewriteSection returns an improved version of text for the named section.
func (s *Service) RewriteSection(ctx context.Context, section, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	heading := section
	if id := resume.SectionID(section); resume.IsKnownSection(id) {
		heading = resume.SectionTitle(id)
	}
	improved, err := s.complete(ctx, rewritePrompt(heading, text))
	if err != nil {
		return "", s.failure("assist.rewrite", err)
	}
	return stripFences(improved), nil
}

// ScoreAgainstJob rates how well content matches jobText.
func (s *Service) ScoreAgainstJob(ctx context.Context, content resume.Content, jobText string) (Match, error) {
	if strings.TrimSpace(jobText) == "" {
		return Match{}, ErrEmptyInput
	}
	encoded, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return Match{}, err
	}
	raw, err := s.complete(ctx, scorePrompt(string(encoded), jobText))
	if err != nil {
		return Match{}, s.failure("assist.score", err)
	}
	var match Match
	if err := json.Unmarshal([]byte(stripFences(raw)), &match); err != nil {
		return Match{}, s.failure("assist.score", fmt.Errorf("decode match: %w", err))
	}
	match.Score = min(max(match.Score, 0), 100)
	if match.Strengths == nil {
		match.Strengths = []string{}
	}
	if match.Gaps == nil {
		match.Gaps = []string{}
	}
	if match.Suggestions == nil {
		match.Suggestions = []string{}
	}
	return match, nil
}

// GenerateSummary drafts a professional summary from content.
func (s *Service) GenerateSummary(ctx context.Context, content resume.Content) (string, error) {
	encoded, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", err
	}
	summary, err := s.complete(ctx, summaryPrompt(string(encoded)))
	if err != nil {
		return "", s.failure("assist.summary", err)
	}
	return stripFences(summary), nil
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	if s.completer == nil {
		return "", ErrNotConfigured
	}
	return s.completer.Complete(ctx, prompt)
}

func (s *Service) failure(operation string, err error) error {
	if errors.Is(err, ErrNotConfigured) {
		return err
	}
	s.logger.Error("ai request failed", zap.String("operation", operation), zap.Error(err))
	return fmt.Errorf("%w: %w", ErrServiceFailure, err)
}

// stripFences removes a surrounding markdown code fence.
func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func fallbackContent(text string) resume.Content {
	content := resume.NewContent()
	name := fallbackName
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			name = trimmed
			break
		}
	}
	content.Personal = resume.PersonalInfo{
		Name:  name,
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
	}
	summary := []rune(text)
	if len(summary) > fallbackSummaryRunes {
		summary = summary[:fallbackSummaryRunes]
	}
	content.Summary = string(summary)
	return content
}
