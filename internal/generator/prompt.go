package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/josephgoksu/perspecto/internal/logger"
	"github.com/josephgoksu/perspecto/models"
)

const artifactPrompt = `You are an expert UX Researcher. Analyze the following Project Context: "{{.Context}}".
{{- if eq .Kind "persona"}} Generate a detailed User Persona for this project.
{{- else if eq .Kind "jtbd"}}
{{- if .Persona}}

Based specifically on this User Persona:
Name: {{.Persona.Name}}
Role: {{.Persona.Role}}
Goals: {{join .Persona.Goals ", "}}
Pains: {{join .Persona.Pains ", "}}

Generate 3 specific Jobs To Be Done (JTBD) statements that addresses this persona's specific needs in the context of the project. Format: When I..., I want to..., So I can...
{{- else}} Generate 3 specific Jobs To Be Done (JTBD) statements for this project using the format: When I..., I want to..., So I can...
{{- end}}
{{- else}} Generate both a User Persona and 3 Jobs To Be Done (JTBD) statements for this project.
{{- end}}`

// jsonFormatInstructions is sent to providers that cannot enforce a response schema.
const jsonFormatInstructions = `Respond ONLY with a JSON object, no prose and no markdown, shaped like:
{
  "persona": {"name": "", "role": "", "goals": [""], "needs": [""], "pains": [""], "tasks": [""]},
  "jtbd": [{"situation": "When I...", "motivation": "I want to...", "outcome": "so I can..."}]
}
Omit "persona" when only JTBD statements are requested and omit "jtbd" when only a persona is requested.`

var promptTemplate = template.Must(template.New("artifact").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(artifactPrompt))

type promptData struct {
	Context string
	Kind    string
	Persona *models.PersonaData
}

// BuildPrompt renders the user prompt for one generation request.
// The persona is only used for JTBD requests.
func BuildPrompt(text string, kind models.GeneratorType, grounding *models.PersonaData) (string, error) {
	data := promptData{Context: text, Kind: string(kind)}
	if kind == models.TypeJTBD {
		data.Persona = grounding
	}
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	logger.SetLastPrompt(buf.String())
	return buf.String(), nil
}
