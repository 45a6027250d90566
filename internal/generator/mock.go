package generator

import (
	"context"
	"time"

	"github.com/josephgoksu/perspecto/models"
)

// MockGenerator returns a fixed demo artifact, trimmed to the requested kind.
type MockGenerator struct {
	Delay time.Duration
}

// NewMock creates a MockGenerator without delay.
func NewMock() *MockGenerator {
	return &MockGenerator{}
}

// DemoResult is the canned artifact served without a provider.
func DemoResult() models.GeneratedResult {
	return models.GeneratedResult{
		Persona: &models.PersonaData{
			Name:  "Alex Rivera",
			Role:  "Freelance Graphic Designer",
			Goals: []string{"Increase client base", "Streamline workflow", "Create high-quality outputs quickly"},
			Needs: []string{"Reliable software tools", "Asset management system", "Fast rendering capabilities"},
			Pains: []string{"Inconsistent client feedback", "Software subscription costs", "Time-consuming file exports"},
			Tasks: []string{"Sourcing images", "Creating mockups", "Communicating with clients via email"},
		},
		JTBD: []models.JTBDData{
			{
				Situation:  "When I am starting a new branding project",
				Motivation: "I want to quickly access a library of high-quality vector assets",
				Outcome:    "so I can present professional concepts to my client without spending hours drawing from scratch.",
			},
			{
				Situation:  "When I receive feedback from a client",
				Motivation: "I want to easily iterate on the design versions",
				Outcome:    "so I can maintain a clear history of changes and approval.",
			},
		},
	}
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, _ string, kind models.GeneratorType, _ *models.PersonaData) (models.GeneratedResult, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return models.GeneratedResult{}, ctx.Err()
		}
	}
	return filterResult(DemoResult(), kind)
}
