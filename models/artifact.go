package models

import (
	"fmt"
	"slices"
	"strings"
)

// GeneratorType is the kind of artifact a generation request asks for.
type GeneratorType string

const (
	TypePersona GeneratorType = "persona"
	TypeJTBD    GeneratorType = "jtbd"
	TypeBoth    GeneratorType = "both"
)

// Derived item names used when an artifact has no natural name.
const (
	JTBDSetName     = "JTBD Set"
	DefaultItemName = "New Item"
)

// ParseGeneratorType normalizes user input into a GeneratorType.
func ParseGeneratorType(s string) (GeneratorType, error) {
	switch t := GeneratorType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypePersona, TypeJTBD, TypeBoth:
		return t, nil
	default:
		return "", fmt.Errorf("invalid artifact type %q (valid: persona, jtbd, both)", s)
	}
}

// IncludesPersona reports whether items of this type carry a persona.
func (t GeneratorType) IncludesPersona() bool {
	return t == TypePersona || t == TypeBoth
}

// PersonaData is a structured synthetic user profile.
type PersonaData struct {
	Name  string   `json:"name" validate:"required"`
	Role  string   `json:"role"`
	Goals []string `json:"goals"`
	Needs []string `json:"needs"`
	Pains []string `json:"pains"`
	Tasks []string `json:"tasks"`
}

// JTBDData is one "When I..., I want to..., so I can..." statement.
type JTBDData struct {
	Situation  string `json:"situation"`
	Motivation string `json:"motivation"`
	Outcome    string `json:"outcome"`
}

// GeneratedResult is the output of one generation request. Either field may be absent.
type GeneratedResult struct {
	Persona *PersonaData `json:"persona,omitempty"`
	JTBD    []JTBDData   `json:"jtbd,omitempty"`
}

// InputContext carries the original prompt alongside whatever it produced.
type InputContext struct {
	Context string        `json:"context" validate:"required"`
	Type    GeneratorType `json:"type" validate:"required,oneof=persona jtbd both"`
}

// HasPersona reports whether a persona is present.
func (r *GeneratedResult) HasPersona() bool {
	return r != nil && r.Persona != nil
}

// HasJTBD reports whether at least one JTBD statement is present.
func (r *GeneratedResult) HasJTBD() bool {
	return r != nil && len(r.JTBD) > 0
}

// IsComplete reports whether both a persona and JTBD statements are present.
func (r *GeneratedResult) IsComplete() bool {
	return r.HasPersona() && r.HasJTBD()
}

// IsOrphanJTBD reports a JTBD set with no linked persona.
func (r *GeneratedResult) IsOrphanJTBD() bool {
	return r.HasJTBD() && !r.HasPersona()
}

// IsEmpty reports a result with no payload, as recorded for non-generation history entries.
func (r *GeneratedResult) IsEmpty() bool {
	return !r.HasPersona() && !r.HasJTBD()
}

// DerivedName picks the item name used when saving this result.
func (r *GeneratedResult) DerivedName() string {
	switch {
	case r.HasPersona():
		return r.Persona.Name
	case r.HasJTBD():
		return JTBDSetName
	default:
		return DefaultItemName
	}
}

// Clone returns a deep copy.
func (r GeneratedResult) Clone() GeneratedResult {
	out := GeneratedResult{JTBD: slices.Clone(r.JTBD)}
	if r.Persona != nil {
		p := r.Persona.Clone()
		out.Persona = &p
	}
	return out
}

// Clone returns a deep copy.
func (p PersonaData) Clone() PersonaData {
	p.Goals = slices.Clone(p.Goals)
	p.Needs = slices.Clone(p.Needs)
	p.Pains = slices.Clone(p.Pains)
	p.Tasks = slices.Clone(p.Tasks)
	return p
}
