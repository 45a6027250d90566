package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type personaDoc struct {
	Persona *struct {
		Name  string   `json:"name"`
		Goals []string `json:"goals"`
	} `json:"persona"`
	JTBD []struct {
		Situation string `json:"situation"`
	} `json:"jtbd"`
}

func TestExtractAndParseJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantGoals int
		wantJTBD  int
		wantErr   bool
	}{
		{
			name:      "plain object",
			input:     `{"persona": {"name": "Alex Rivera", "goals": ["a", "b"]}}`,
			wantName:  "Alex Rivera",
			wantGoals: 2,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"jtbd\": [{\"situation\": \"When I...\"}]}\n```",
			wantJTBD: 1,
		},
		{
			name:      "bare fence",
			input:     "```\n{\"persona\": {\"name\": \"Sam\", \"goals\": []}}\n```",
			wantName:  "Sam",
			wantGoals: 0,
		},
		{
			name:      "leading and trailing prose",
			input:     `Here you go: {"persona": {"name": "Kim", "goals": ["x"]}} Hope this helps!`,
			wantName:  "Kim",
			wantGoals: 1,
		},
		{
			name:      "trailing comma",
			input:     `{"persona": {"name": "Lee", "goals": ["x", "y",]},}`,
			wantName:  "Lee",
			wantGoals: 2,
		},
		{
			name:      "single quotes",
			input:     `{'persona': {'name': 'Ana', 'goals': []}}`,
			wantName:  "Ana",
			wantGoals: 0,
		},
		{
			name:      "raw newline inside string",
			input:     "{\"persona\": {\"name\": \"Jo\nDoe\", \"goals\": []}}",
			wantName:  "Jo\nDoe",
			wantGoals: 0,
		},
		{
			name:      "truncated output",
			input:     `{"persona": {"name": "Max", "goals": ["ship fast", "sleep`,
			wantName:  "Max",
			wantGoals: 2,
		},
		{
			name:      "double encoded",
			input:     `"{\"persona\": {\"name\": \"Quoted\", \"goals\": []}}"`,
			wantName:  "Quoted",
			wantGoals: 0,
		},
		{name: "empty", input: "  ", wantErr: true},
		{name: "no json", input: "I cannot help with that.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractAndParseJSON[personaDoc](tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantName != "" {
				require.NotNil(t, got.Persona)
				assert.Equal(t, tt.wantName, got.Persona.Name)
				assert.Len(t, got.Persona.Goals, tt.wantGoals)
			}
			assert.Len(t, got.JTBD, tt.wantJTBD)
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```JSON\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences(`  {"a":1}  `))
}

func TestFixTruncatedJSON_ClosesInOrder(t *testing.T) {
	assert.Equal(t, `{"a": [1, {"b": 2}]}`, fixTruncatedJSON(`{"a": [1, {"b": 2`))
	assert.Equal(t, `{"s": "brace } inside"}`, fixTruncatedJSON(`{"s": "brace } inside`))
}

func TestTruncateAndHead(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hel...", Truncate("hello world", 6))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "héllo", Head("héllo wörld", 5))
	assert.Equal(t, "short", Head("short", 30))
	assert.Equal(t, "", Head("x", -1))
}
