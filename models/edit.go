package models

import (
	"fmt"
	"strings"
)

// PersonaListField names one of the four editable persona lists.
type PersonaListField string

const (
	FieldGoals PersonaListField = "goals"
	FieldNeeds PersonaListField = "needs"
	FieldPains PersonaListField = "pains"
	FieldTasks PersonaListField = "tasks"
)

// JTBDPart names one part of the three-part JTBD sentence.
type JTBDPart string

const (
	PartSituation  JTBDPart = "situation"
	PartMotivation JTBDPart = "motivation"
	PartOutcome    JTBDPart = "outcome"
)

// NewListEntry is the placeholder appended by the editor.
const NewListEntry = "New item"

// DefaultJTBD returns the template statement the editor appends.
func DefaultJTBD() JTBDData {
	return JTBDData{
		Situation:  "When I...",
		Motivation: "I want to...",
		Outcome:    "so I can...",
	}
}

func (p *PersonaData) list(field PersonaListField) (*[]string, error) {
	switch field {
	case FieldGoals:
		return &p.Goals, nil
	case FieldNeeds:
		return &p.Needs, nil
	case FieldPains:
		return &p.Pains, nil
	case FieldTasks:
		return &p.Tasks, nil
	default:
		return nil, fmt.Errorf("unknown persona list %q (valid: goals, needs, pains, tasks)", field)
	}
}

// AppendEntry adds value to the end of the named list. Duplicates are allowed.
func (p *PersonaData) AppendEntry(field PersonaListField, value string) error {
	l, err := p.list(field)
	if err != nil {
		return err
	}
	*l = append(*l, value)
	return nil
}

// RemoveEntry deletes the entry at index from the named list.
func (p *PersonaData) RemoveEntry(field PersonaListField, index int) error {
	l, err := p.list(field)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("%s index %d out of range (0..%d)", field, index, len(*l)-1)
	}
	*l = append((*l)[:index:index], (*l)[index+1:]...)
	return nil
}

// EditEntry replaces the entry at index in the named list.
func (p *PersonaData) EditEntry(field PersonaListField, index int, value string) error {
	l, err := p.list(field)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("%s index %d out of range (0..%d)", field, index, len(*l)-1)
	}
	(*l)[index] = value
	return nil
}

// AddJTBD appends a statement.
func (r *GeneratedResult) AddJTBD(j JTBDData) {
	r.JTBD = append(r.JTBD, j)
}

// RemoveJTBD deletes the statement at index.
func (r *GeneratedResult) RemoveJTBD(index int) error {
	if index < 0 || index >= len(r.JTBD) {
		return fmt.Errorf("jtbd index %d out of range (0..%d)", index, len(r.JTBD)-1)
	}
	r.JTBD = append(r.JTBD[:index:index], r.JTBD[index+1:]...)
	return nil
}

// EditJTBD replaces one part of the statement at index.
func (r *GeneratedResult) EditJTBD(index int, part JTBDPart, value string) error {
	if index < 0 || index >= len(r.JTBD) {
		return fmt.Errorf("jtbd index %d out of range (0..%d)", index, len(r.JTBD)-1)
	}
	j := &r.JTBD[index]
	switch part {
	case PartSituation:
		j.Situation = value
	case PartMotivation:
		j.Motivation = value
	case PartOutcome:
		j.Outcome = value
	default:
		return fmt.Errorf("unknown jtbd part %q (valid: situation, motivation, outcome)", part)
	}
	return nil
}

// Phrases returns the three parts of the statement, each starting with its lead-in
// ("When", "I want to", "so I can") and without trailing punctuation. Parts that
// already carry the lead-in are kept as written.
func (j JTBDData) Phrases() (situation, motivation, outcome string) {
	return leadIn("When", j.Situation), leadIn("I want to", j.Motivation), leadIn("so I can", j.Outcome)
}

func leadIn(lead, part string) string {
	part = strings.TrimRight(strings.TrimSpace(part), ",.")
	if len(part) >= len(lead) && strings.EqualFold(part[:len(lead)], lead) {
		return part
	}
	return lead + " " + part
}
