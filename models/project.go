package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Item is a saved artifact inside a Project. Timestamps are Unix milliseconds.
type Item struct {
	ID           string          `json:"id"`
	Type         GeneratorType   `json:"type"`
	Name         string          `json:"name"`
	CreatedAt    int64           `json:"createdAt"`
	UpdatedAt    int64           `json:"updatedAt"`
	Data         GeneratedResult `json:"data"`
	InputContext InputContext    `json:"inputContext"`
}

// ItemFields are the caller-supplied fields of a new Item; the store assigns id and timestamps.
type ItemFields struct {
	Type         GeneratorType
	Name         string
	Data         GeneratedResult
	InputContext InputContext
}

// Project owns an ordered list of items, newest first.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	PreviewImage string `json:"previewImage,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
	Items        []Item `json:"items"`
}

// FindItem returns the item with the given id, or nil.
func (p *Project) FindItem(id string) *Item {
	if p == nil {
		return nil
	}
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i]
		}
	}
	return nil
}

// Personas returns the personas of every item whose type includes one, in item order.
func (p *Project) Personas() []PersonaData {
	if p == nil {
		return nil
	}
	var out []PersonaData
	for _, it := range p.Items {
		if it.Type.IncludesPersona() && it.Data.Persona != nil {
			out = append(out, it.Data.Persona.Clone())
		}
	}
	return out
}

// Clone returns a deep copy.
func (p Project) Clone() Project {
	items := make([]Item, len(p.Items))
	for i, it := range p.Items {
		it.Data = it.Data.Clone()
		items[i] = it
	}
	p.Items = items
	return p
}

// HistoryItem is one entry of the audit trail. Result may be empty.
type HistoryItem struct {
	ID           string          `json:"id"`
	Timestamp    int64           `json:"timestamp"`
	InputContext InputContext    `json:"inputContext"`
	Result       GeneratedResult `json:"result"`
}

// ProjectIDs returns the ids of the given projects, preserving order.
func ProjectIDs(projects []Project) []string {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}

var validate = validator.New()

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.Field(), e.Tag()))
	}
	slices.Sort(msgs)
	return fmt.Errorf("validation: %s", strings.Join(msgs, "; "))
}
