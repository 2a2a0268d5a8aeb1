// Package content serves the narrative descriptions of the sixteen types.
package content

import (
	_ "embed"
	"fmt"
	"strings"

	"mbti-quiz-service/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed types.yaml
var typesYAML []byte

// Library is a read-only lookup of type descriptions keyed by label.
type Library struct {
	descriptions map[string]domain.TypeDescription
}

// Default loads the embedded descriptions.
func Default() *Library {
	lib, err := Parse(typesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded type descriptions: %v", err))
	}
	return lib
}

func Parse(data []byte) (*Library, error) {
	var entries []domain.TypeDescription
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode type descriptions: %w", err)
	}
	lib := &Library{descriptions: make(map[string]domain.TypeDescription, len(entries))}
	for _, e := range entries {
		lib.descriptions[strings.ToUpper(e.Type)] = e
	}
	return lib, nil
}

// Lookup returns the description for a four-letter label. Labels are case-insensitive.
func (l *Library) Lookup(label string) (domain.TypeDescription, bool) {
	d, ok := l.descriptions[strings.ToUpper(label)]
	return d, ok
}

// Labels lists the labels with a description.
func (l *Library) Labels() []string {
	labels := make([]string, 0, len(l.descriptions))
	for label := range l.descriptions {
		labels = append(labels, label)
	}
	return labels
}
