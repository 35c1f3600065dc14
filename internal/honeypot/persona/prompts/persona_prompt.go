package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/scamtrap-poc/server/internal/honeypot/model"
)

//go:embed template/persona_prompt.txt
var personaSystemPrompt string

// RenderPersonaSystem renders the fixed victim-persona system instruction.
func RenderPersonaSystem(ctx context.Context, config model.PersonaPromptConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(personaSystemPrompt),
	)
	vars := map[string]any{
		"Profile": config.Profile,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("persona prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("persona prompt render: empty result")
	}
	return msgs[0].Content, nil
}
