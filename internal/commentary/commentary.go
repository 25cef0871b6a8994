package commentary

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// Annotator produces an optional one-line commentary for an alert. Output is
// decorative only: errors are swallowed by callers and the result never
// influences screening decisions.
type Annotator interface {
	Annotate(ctx context.Context, summary string) (string, error)
}

// Noop returns no commentary. It is the default annotator.
type Noop struct{}

// Annotate returns an empty string.
func (Noop) Annotate(context.Context, string) (string, error) {
	return "", nil
}

// Gemini generates a short commentary line via the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *logrus.Logger
}

// NewGemini creates a Gemini-backed annotator. The API key is read from the
// environment by the genai client.
func NewGemini(ctx context.Context, model string, logger *logrus.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, logger: logger}, nil
}

// Annotate asks the model for a single-sentence take on the candidate.
func (g *Gemini) Annotate(ctx context.Context, summary string) (string, error) {
	prompt := "In one short sentence, give a neutral observation about this newly listed token. " +
		"No advice, no hype, no emojis.\n\n" + summary

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate commentary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	g.logger.WithField("commentary", text).Debug("Generated alert commentary")
	return text, nil
}
