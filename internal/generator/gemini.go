package generator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/josephgoksu/perspecto/models"
)

// contentGenerator is the slice of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator calls the Gemini API with a structured response schema.
type GeminiGenerator struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGemini creates a generator over a genai Models service.
func NewGemini(client contentGenerator, model string, temperature float32) *GeminiGenerator {
	return &GeminiGenerator{models: client, model: model, temperature: temperature}
}

func stringList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

// resultSchema mirrors models.GeneratedResult.
func resultSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"persona": {
				Type:     genai.TypeObject,
				Nullable: genai.Ptr(true),
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString},
					"role":  {Type: genai.TypeString},
					"goals": stringList(),
					"needs": stringList(),
					"pains": stringList(),
					"tasks": stringList(),
				},
			},
			"jtbd": {
				Type:     genai.TypeArray,
				Nullable: genai.Ptr(true),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"situation":  {Type: genai.TypeString, Description: "The 'When I...' part"},
						"motivation": {Type: genai.TypeString, Description: "The 'I want to...' part"},
						"outcome":    {Type: genai.TypeString, Description: "The 'So I can...' part"},
					},
				},
			},
		},
	}
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, text string, kind models.GeneratorType, grounding *models.PersonaData) (models.GeneratedResult, error) {
	prompt, err := BuildPrompt(text, kind, grounding)
	if err != nil {
		return models.GeneratedResult{}, err
	}

	temp := g.temperature
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   resultSchema(),
		Temperature:      &temp,
	})
	if err != nil {
		return models.GeneratedResult{}, fmt.Errorf("gemini generate: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return models.GeneratedResult{}, fmt.Errorf("gemini generate: no response text received")
	}
	return parseResult(raw, kind)
}
