package generator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/josephgoksu/perspecto/models"
)

// ChatGenerator drives any Eino chat model. The JSON shape is requested in the system prompt.
type ChatGenerator struct {
	chatModel model.BaseChatModel
}

// NewChat wraps an Eino chat model.
func NewChat(chatModel model.BaseChatModel) *ChatGenerator {
	return &ChatGenerator{chatModel: chatModel}
}

// Generate implements Generator.
func (g *ChatGenerator) Generate(ctx context.Context, text string, kind models.GeneratorType, grounding *models.PersonaData) (models.GeneratedResult, error) {
	prompt, err := BuildPrompt(text, kind, grounding)
	if err != nil {
		return models.GeneratedResult{}, err
	}

	messages := []*schema.Message{
		schema.SystemMessage(jsonFormatInstructions),
		schema.UserMessage(prompt),
	}
	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return models.GeneratedResult{}, fmt.Errorf("chat generate: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return models.GeneratedResult{}, fmt.Errorf("chat generate: no response text received")
	}
	return parseResult(resp.Content, kind)
}
