package gemini

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/Temutjin2k/miletracker/internal/domain/types"
	"github.com/Temutjin2k/miletracker/pkg/logger"
	wrap "github.com/Temutjin2k/miletracker/pkg/logger/wrapper"
)

const (
	DefaultModel = "gemini-2.5-flash"

	MissingKeyText = "AI unavailable (Missing API Key)"
	ErrorText      = "Great drive!"
	EmptyText      = "Drive logged successfully."
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Suggester writes a short note for a trip. It never fails: every problem maps to a fixed text.
type Suggester struct {
	gen Generator
	l   logger.Logger
}

// New builds a Suggester backed by the Gemini API. An empty apiKey yields a Suggester
// that always answers MissingKeyText.
func New(ctx context.Context, apiKey, model string, l logger.Logger) (*Suggester, error) {
	if apiKey == "" {
		return &Suggester{l: l}, nil
	}
	gen, err := NewGenAI(ctx, apiKey, model)
	if err != nil {
		return nil, err
	}
	return &Suggester{gen: gen, l: l}, nil
}

// NewWithGenerator is used by tests and alternative backends.
func NewWithGenerator(gen Generator, l logger.Logger) *Suggester {
	return &Suggester{gen: gen, l: l}
}

// Prompt is the instruction sent for a trip of the given miles.
func Prompt(miles float64) string {
	return fmt.Sprintf(
		"Generate a short, witty, or encouraging driving log message for a trip of %s miles. Keep it under 15 words.",
		strconv.FormatFloat(miles, 'f', -1, 64),
	)
}

func (s *Suggester) Suggest(ctx context.Context, miles float64) string {
	if s.gen == nil {
		return MissingKeyText
	}

	ctx = wrap.WithAction(ctx, types.ActionSuggestion)
	text, err := s.gen.Generate(ctx, Prompt(miles))
	if err != nil {
		s.l.Error(ctx, "suggestion request failed", err)
		return ErrorText
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyText
	}
	return text
}

// GenAI calls the Gemini generateContent endpoint.
type GenAI struct {
	client *genai.Client
	model  string
}

func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAI{client: client, model: model}, nil
}

func (g *GenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
