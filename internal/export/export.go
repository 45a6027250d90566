// Package export writes a generated artifact as JSON, YAML or Markdown.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/josephgoksu/perspecto/models"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts json, yaml/yml and markdown/md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (valid: json, yaml, markdown)", s)
	}
}

// Document is what gets exported: an artifact plus the prompt that produced it.
type Document struct {
	Name    string               `json:"name" yaml:"name"`
	Project string               `json:"project,omitempty" yaml:"project,omitempty"`
	Type    models.GeneratorType `json:"type" yaml:"type"`
	Context string               `json:"context,omitempty" yaml:"context,omitempty"`
	Persona *models.PersonaData  `json:"persona,omitempty" yaml:"persona,omitempty"`
	JTBD    []models.JTBDData    `json:"jtbd,omitempty" yaml:"jtbd,omitempty"`
}

// FromItem builds a Document from a saved project item.
func FromItem(project string, it models.Item) Document {
	return Document{
		Name:    it.Name,
		Project: project,
		Type:    it.Type,
		Context: it.InputContext.Context,
		Persona: it.Data.Persona,
		JTBD:    it.Data.JTBD,
	}
}

// FromResult builds a Document from an unsaved result.
func FromResult(r models.GeneratedResult, in *models.InputContext) Document {
	doc := Document{Name: r.DerivedName(), Persona: r.Persona, JTBD: r.JTBD}
	if in != nil {
		doc.Type = in.Type
		doc.Context = in.Context
	}
	return doc
}

// FromOpen builds a Document from the result being viewed. When it belongs to a
// saved item, the item supplies name and project while r carries unsaved edits.
func FromOpen(r models.GeneratedResult, in *models.InputContext, project *models.Project, item *models.Item) Document {
	if project == nil || item == nil {
		return FromResult(r, in)
	}
	doc := FromItem(project.Name, *item)
	doc.Persona, doc.JTBD = r.Persona, r.JTBD
	return doc
}

// Write encodes doc to w.
func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		return markdown.Execute(w, doc)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

var markdown = template.Must(template.New("artifact").Funcs(template.FuncMap{
	"sentence": func(j models.JTBDData) string {
		situation, motivation, outcome := j.Phrases()
		return situation + ", " + motivation + ", " + outcome + "."
	},
	"inc":     func(i int) int { return i + 1 },
	"section": func(title string, items []string) listSection { return listSection{Title: title, Items: items} },
}).Parse(`# {{.Name}}
{{- if .Project}}

_Project: {{.Project}}_
{{- end}}
{{- if .Context}}

> {{.Context}}
{{- end}}
{{- with .Persona}}

## Persona: {{.Name}}
{{- if .Role}}

**Role:** {{.Role}}
{{- end}}
{{- template "list" (section "Goals" .Goals)}}
{{- template "list" (section "Needs" .Needs)}}
{{- template "list" (section "Pains" .Pains)}}
{{- template "list" (section "Tasks" .Tasks)}}
{{- end}}
{{- if .JTBD}}

## Jobs to be Done
{{range $i, $j := .JTBD}}
{{inc $i}}. {{sentence $j}}
{{- end}}
{{- end}}
{{define "list"}}{{if .Items}}

### {{.Title}}
{{range .Items}}
- {{.}}
{{- end}}{{end}}{{end}}`))

type listSection struct {
	Title string
	Items []string
}
