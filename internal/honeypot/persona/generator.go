// Package persona wraps the Gemini chat model behind the ReplyGenerator
// capability: full transcript in, one in-character victim reply out.
package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	errx "github.com/scamtrap-poc/server/internal/core/error"
	"github.com/scamtrap-poc/server/internal/honeypot/model"
	"github.com/scamtrap-poc/server/internal/honeypot/persona/prompts"
	logx "github.com/scamtrap-poc/server/pkg/logger"
)

// ErrNotConfigured is returned for every call when no model credential was
// supplied at startup. The contract forbids silent placeholder replies.
var ErrNotConfigured = errors.New("persona model credential not configured")

// Config holds everything needed to build the Gemini-backed generator.
type Config struct {
	APIKey  string
	BaseURL string
	Model   model.PersonaModelConfig
	Prompt  model.PersonaPromptConfig
}

type Generator struct {
	chatModel *gemini.ChatModel
	prompt    model.PersonaPromptConfig
}

// New builds the genai client and the eino Gemini chat model.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model.Model,
		Temperature: &cfg.Model.Temperature,
		MaxTokens:   &cfg.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating persona model")
		return nil, fmt.Errorf("error creating persona model: %w", err)
	}

	return &Generator{chatModel: chatModel, prompt: cfg.Prompt}, nil
}

// GenerateReply sends the persona brief plus the rendered transcript to the
// model and returns the trimmed reply. Any model failure is surfaced as a
// collaborator failure; there is no canned fallback.
func (g *Generator) GenerateReply(ctx context.Context, transcript string) (string, error) {
	system, err := prompts.RenderPersonaSystem(ctx, g.prompt)
	if err != nil {
		return "", err
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage("Conversation so far:\n" + transcript),
	}

	out, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		logx.Error().Err(err).Msg("persona model call failed")
		return "", errx.WrapModel(err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errx.WrapModel(errors.New("empty model response"))
	}
	return strings.TrimSpace(out.Content), nil
}

// Disabled is the generator installed when GEMINI_API_KEY is absent: every
// call fails deterministically.
type Disabled struct{}

func (Disabled) GenerateReply(context.Context, string) (string, error) {
	return "", errx.WrapModel(ErrNotConfigured)
}

var (
	_ model.ReplyGenerator = (*Generator)(nil)
	_ model.ReplyGenerator = Disabled{}
)
