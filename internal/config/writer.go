package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SettableKeys are the dotted keys `perspecto config set` accepts.
var SettableKeys = []string{
	"data.dir",
	"storage.backend",
	"storage.redis.addr",
	"storage.redis.db",
	"storage.redis.prefix",
	"llm.provider",
	"llm.model",
	"llm.baseURL",
	"llm.temperature",
	"llm.apiKeys.gemini",
	"llm.apiKeys.openai",
	"llm.apiKeys.anthropic",
	"auth.provider",
	"auth.firebase.apiKey",
	"auth.firebase.projectId",
	"auth.firebase.credentialsFile",
	"telemetry.enabled",
	"telemetry.apiKey",
	"log.level",
	"log.format",
}

// IsSecretKey reports whether the value at key must not be echoed back.
func IsSecretKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "apikey")
}

// SetValue writes key=value into the YAML file at path, creating it if needed.
// Comments and unrelated keys are preserved.
func SetValue(path, key, value string) error {
	if !slices.Contains(SettableKeys, key) {
		return fmt.Errorf("unknown config key %q", key)
	}

	var doc yaml.Node
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	case err != nil:
		return err
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if len(doc.Content) == 0 {
			doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
		}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: top level is not a mapping", path)
	}
	setPath(root, strings.Split(key, "."), scalarNode(value))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// setPath walks (and creates) nested mappings down to the last segment.
func setPath(m *yaml.Node, keys []string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != keys[0] {
			continue
		}
		if len(keys) == 1 {
			value.HeadComment = m.Content[i+1].HeadComment
			value.LineComment = m.Content[i+1].LineComment
			m.Content[i+1] = value
			return
		}
		child := m.Content[i+1]
		if child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			m.Content[i+1] = child
		}
		setPath(child, keys[1:], value)
		return
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: keys[0]}
	if len(keys) == 1 {
		m.Content = append(m.Content, keyNode, value)
		return
	}
	child := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, keyNode, child)
	setPath(child, keys[1:], value)
}

// scalarNode lets yaml.v3 pick the tag so "true" and "0.3" stay typed.
func scalarNode(value string) *yaml.Node {
	var n yaml.Node
	if err := yaml.Unmarshal([]byte(value), &n); err == nil && len(n.Content) == 1 && n.Content[0].Kind == yaml.ScalarNode {
		out := n.Content[0]
		out.Line, out.Column = 0, 0
		return out
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
