// Package generator turns a project description into personas and JTBD statements.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/perspecto/internal/llm"
	"github.com/josephgoksu/perspecto/internal/utils"
	"github.com/josephgoksu/perspecto/models"
)

// Generator produces one artifact per call. grounding, when set, anchors JTBD statements to a persona.
type Generator interface {
	Generate(ctx context.Context, text string, kind models.GeneratorType, grounding *models.PersonaData) (models.GeneratedResult, error)
}

// ErrIncompleteResult is returned when the model answered without the requested artifact.
var ErrIncompleteResult = errors.New("generator: response did not contain the requested artifact")

// New picks the implementation for cfg. Hosted providers without an API key fall back
// to the canned demo result so the workflow can still be explored offline.
func New(ctx context.Context, cfg llm.Config) (Generator, error) {
	if cfg.Provider == llm.ProviderMock {
		return NewMock(), nil
	}
	if llm.RequiresAPIKey(cfg.Provider) && cfg.APIKey == "" {
		slog.Warn("no API key configured, using demo data", "provider", cfg.Provider)
		return NewMock(), nil
	}

	if cfg.Provider == llm.ProviderGemini {
		client, err := llm.NewGenAIClient(ctx, cfg.APIKey)
		if err != nil {
			return nil, err
		}
		return NewGemini(client.Models, cfg.EffectiveModel(), cfg.EffectiveTemperature()), nil
	}

	chatModel, err := llm.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return NewChat(chatModel), nil
}

// parseResult decodes model output and keeps only the parts that were asked for.
func parseResult(raw string, kind models.GeneratorType) (models.GeneratedResult, error) {
	result, err := utils.ExtractAndParseJSON[models.GeneratedResult](raw)
	if err != nil {
		return models.GeneratedResult{}, err
	}
	return filterResult(result, kind)
}

// filterResult drops artifacts the model added on its own and checks the requested ones are present.
func filterResult(result models.GeneratedResult, kind models.GeneratorType) (models.GeneratedResult, error) {
	switch kind {
	case models.TypePersona:
		result.JTBD = nil
	case models.TypeJTBD:
		result.Persona = nil
	}

	if kind.IncludesPersona() && (!result.HasPersona() || result.Persona.Name == "") {
		return models.GeneratedResult{}, fmt.Errorf("%w: persona missing", ErrIncompleteResult)
	}
	if kind != models.TypePersona && !result.HasJTBD() {
		return models.GeneratedResult{}, fmt.Errorf("%w: jtbd missing", ErrIncompleteResult)
	}
	return result, nil
}
