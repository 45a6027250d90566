package app

import (
	"slices"
	"strings"

	"github.com/josephgoksu/perspecto/internal/auth"
	"github.com/josephgoksu/perspecto/models"
)

// State is a read-only copy of everything a front end renders.
type State struct {
	View             models.View             `json:"view"`
	User             *auth.User              `json:"user,omitempty"`
	InputContext     *models.InputContext    `json:"inputContext,omitempty"`
	Result           *models.GeneratedResult `json:"result,omitempty"`
	ActiveProject    *models.Project         `json:"activeProject,omitempty"`
	ActiveItem       *models.Item            `json:"activeItem,omitempty"`
	InitialInputType models.GeneratorType    `json:"initialInputType"`
	InputTypeLocked  bool                    `json:"inputTypeLocked"`

	// PendingSave is a standalone result waiting for the user to pick a project.
	PendingSave *models.GeneratedResult `json:"pendingSave,omitempty"`

	Projects []models.Project     `json:"projects"`
	History  []models.HistoryItem `json:"history"`

	// Notice is the confirmation message of the last action, if any.
	Notice string `json:"notice,omitempty"`
}

// IsSaved reports whether the output view shows an artifact that lives in a project.
func (s State) IsSaved() bool {
	return s.ActiveItem != nil
}

// IsIntermediate reports a "both" request that has its persona but still needs JTBD.
func (s State) IsIntermediate() bool {
	return s.InputContext != nil && s.InputContext.Type == models.TypeBoth &&
		s.Result.HasPersona() && !s.Result.HasJTBD()
}

// AvailablePersonas lists the personas an orphan JTBD set can be linked to.
func (s State) AvailablePersonas() []models.PersonaData {
	return s.ActiveProject.Personas()
}

// FindPersona picks a persona for grounding or linking. An empty name means the persona
// of the current result; otherwise the current result and the active project's personas
// are searched by case-insensitive name.
func (s State) FindPersona(name string) (models.PersonaData, bool) {
	if name == "" {
		if s.Result.HasPersona() {
			return s.Result.Persona.Clone(), true
		}
		return models.PersonaData{}, false
	}
	if s.Result.HasPersona() && strings.EqualFold(s.Result.Persona.Name, name) {
		return s.Result.Persona.Clone(), true
	}
	for _, p := range s.AvailablePersonas() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return models.PersonaData{}, false
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.InputContext != nil {
		in := *s.InputContext
		out.InputContext = &in
	}
	out.Result = cloneResult(s.Result)
	out.PendingSave = cloneResult(s.PendingSave)
	if s.ActiveProject != nil {
		p := s.ActiveProject.Clone()
		out.ActiveProject = &p
	}
	if s.ActiveItem != nil {
		it := *s.ActiveItem
		it.Data = it.Data.Clone()
		out.ActiveItem = &it
	}
	out.Projects = make([]models.Project, len(s.Projects))
	for i, p := range s.Projects {
		out.Projects[i] = p.Clone()
	}
	out.History = slices.Clone(s.History)
	for i := range out.History {
		out.History[i].Result = out.History[i].Result.Clone()
	}
	return out
}

func cloneResult(r *models.GeneratedResult) *models.GeneratedResult {
	if r == nil {
		return nil
	}
	c := r.Clone()
	return &c
}
