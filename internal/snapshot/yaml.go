package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/grantplan/internal/domain"
	"gopkg.in/yaml.v3"
)

// EncodeYAML renders tree as a YAML document using the same payload layout.
func EncodeYAML(tree *domain.ProjectTree, generatedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromTree(tree, generatedAt)); err != nil {
		return nil, fmt.Errorf("encoding snapshot yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding snapshot yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses a YAML payload into a tree.
func DecodeYAML(data []byte) (*domain.ProjectTree, error) {
	var p Payload
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return ToTree(&p)
}

// DecodeAny accepts JSON or YAML. JSON is tried first since every JSON
// document is also valid YAML.
func DecodeAny(data []byte) (*domain.ProjectTree, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return Decode(trimmed)
	}
	return DecodeYAML(data)
}

// JSONToYAML re-renders a stored JSON payload as YAML without touching its
// metadata.
func JSONToYAML(data []byte) ([]byte, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&p); err != nil {
		return nil, fmt.Errorf("encoding snapshot yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding snapshot yaml: %w", err)
	}
	return buf.Bytes(), nil
}
