package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/perspecto/internal/app"
	"github.com/josephgoksu/perspecto/internal/auth"
	"github.com/josephgoksu/perspecto/models"
)

func plainOutput(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.ANSI256) })
}

var alex = models.PersonaData{
	Name:  "Alex",
	Role:  "Freelance designer",
	Goals: []string{"Get paid on time"},
	Pains: []string{"Chasing invoices"},
}

func TestRenderPersona(t *testing.T) {
	plainOutput(t)

	out := RenderPersona(alex)
	assert.Contains(t, out, "Alex")
	assert.Contains(t, out, "Freelance designer")
	assert.Contains(t, out, "Goals")
	assert.Contains(t, out, "1. Get paid on time")
	assert.Contains(t, out, "Pains")
	assert.NotContains(t, out, "Needs", "empty sections are omitted")
}

func TestRenderJTBD(t *testing.T) {
	plainOutput(t)

	out := RenderJTBD([]models.JTBDData{{
		Situation:  "I finish a project",
		Motivation: "send an invoice immediately",
		Outcome:    "get paid faster.",
	}})
	assert.Contains(t, out, "When I finish a project,")
	assert.Contains(t, out, "I want to send an invoice immediately,")
	assert.Contains(t, out, "so I can get paid faster.")
	assert.NotContains(t, out, "faster..")
}

func TestRenderResult(t *testing.T) {
	plainOutput(t)

	assert.Contains(t, RenderResult(nil), "no artifact")

	orphan := &models.GeneratedResult{JTBD: []models.JTBDData{models.DefaultJTBD()}}
	assert.Contains(t, RenderResult(orphan), "No persona linked")

	full := &models.GeneratedResult{Persona: &alex, JTBD: orphan.JTBD}
	out := RenderResult(full)
	assert.Less(t, strings.Index(out, "Alex"), strings.Index(out, "Jobs to be Done"))
	assert.NotContains(t, out, "No persona linked")
}

func TestRenderProjects(t *testing.T) {
	plainOutput(t)

	assert.Contains(t, RenderProjects(nil), "No projects yet")

	out := RenderProjects([]models.Project{{
		ID:    "0a1b2c3d-0000-4000-8000-000000000000",
		Name:  "Banking App",
		Items: []models.Item{{ID: "i1"}, {ID: "i2"}},
	}})
	assert.Contains(t, out, "0a1b2c3d")
	assert.NotContains(t, out, "0a1b2c3d-")
	assert.Contains(t, out, "Banking App")
	assert.Contains(t, out, "2")
}

func TestRenderHistory(t *testing.T) {
	plainOutput(t)

	out := RenderHistory([]models.HistoryItem{{
		ID:           "h1",
		Timestamp:    1700000000000,
		InputContext: models.InputContext{Context: "A banking\napp", Type: models.TypeBoth},
	}})
	assert.Contains(t, out, "A banking app")
	assert.Contains(t, out, "both")
	assert.Contains(t, RenderHistory(nil), "History is empty")
}

func TestRenderStatus(t *testing.T) {
	plainOutput(t)

	out := RenderStatus(app.State{View: models.ViewLanding})
	assert.Contains(t, out, "landing")
	assert.Contains(t, out, "signed out")

	p := &models.Project{ID: "p1", Name: "Banking App"}
	out = RenderStatus(app.State{
		View:          models.ViewOutput,
		User:          &auth.User{Email: "ana@example.com"},
		ActiveProject: p,
		Result:        &models.GeneratedResult{Persona: &alex},
		PendingSave:   &models.GeneratedResult{Persona: &alex},
		Projects:      []models.Project{*p},
	})
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "Banking App")
	assert.Contains(t, out, "Alex (unsaved)")
	assert.Contains(t, out, "choose a project")
}

func TestRenderNoticeAndError(t *testing.T) {
	plainOutput(t)

	assert.Empty(t, RenderNotice(""))
	assert.Equal(t, "✓ Artifact saved successfully", RenderNotice("Artifact saved successfully"))
	assert.Equal(t, "✗ boom", RenderError(errors.New("boom")))
	assert.Equal(t, "-", FormatTime(0))
}

func TestSelectModel(t *testing.T) {
	var m tea.Model = selectModel{title: "Pick a project", options: []Option{{ID: "a", Label: "Alpha"}, {ID: "b", Label: "Beta"}}}
	assert.Contains(t, m.View(), "▶ ")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.Equal(t, "b", m.(selectModel).selectedID, "cursor stops at the last option")

	m, _ = selectModel{options: []Option{{ID: "a"}}}.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.(selectModel).quit)
}
