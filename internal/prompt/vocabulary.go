package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Keyword maps a request term to the English object it stands for.
type Keyword struct {
	Term   string `yaml:"term"`
	Object string `yaml:"object"`
}

// SpatialRule emits Instruction when every group in AllOf has at least one
// term present in the request.
type SpatialRule struct {
	Instruction string     `yaml:"instruction"`
	AllOf       [][]string `yaml:"all_of"`
}

// Vocabulary is the keyword dictionary and spatial rule set used by the
// composer. Entries are evaluated in declaration order.
type Vocabulary struct {
	Keywords []Keyword     `yaml:"keywords"`
	Rules    []SpatialRule `yaml:"rules"`
}

var defaultVocabulary = sync.OnceValues(func() (*Vocabulary, error) {
	return ParseVocabulary(defaultVocabularyYAML)
})

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := defaultVocabulary()
	if err != nil {
		panic(fmt.Sprintf("prompt: embedded vocabulary: %v", err))
	}
	return v
}

// LoadVocabulary reads a vocabulary file. An empty path yields the default.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt: read vocabulary: %w", err)
	}
	return ParseVocabulary(raw)
}

// ParseVocabulary decodes and validates YAML vocabulary data. Terms are
// stored lower-cased.
func ParseVocabulary(raw []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("prompt: decode vocabulary: %w", err)
	}
	for i := range v.Keywords {
		k := &v.Keywords[i]
		k.Term = lowerTerm(k.Term)
		k.Object = strings.TrimSpace(k.Object)
		if k.Term == "" || k.Object == "" {
			return nil, fmt.Errorf("prompt: keyword %d needs term and object", i)
		}
	}
	for i := range v.Rules {
		r := &v.Rules[i]
		r.Instruction = strings.TrimSpace(r.Instruction)
		if r.Instruction == "" {
			return nil, fmt.Errorf("prompt: rule %d has no instruction", i)
		}
		if len(r.AllOf) == 0 {
			return nil, fmt.Errorf("prompt: rule %d has no term groups", i)
		}
		for g := range r.AllOf {
			if len(r.AllOf[g]) == 0 {
				return nil, fmt.Errorf("prompt: rule %d group %d is empty", i, g)
			}
			for t := range r.AllOf[g] {
				r.AllOf[g][t] = lowerTerm(r.AllOf[g][t])
				if r.AllOf[g][t] == "" {
					return nil, errors.New("prompt: empty rule term")
				}
			}
		}
	}
	return &v, nil
}

// Objects returns the mapped object of every keyword found in text, in
// dictionary order. Repeated objects are kept.
func (v *Vocabulary) Objects(text string) []string {
	m := newMatcher(text)
	var out []string
	for _, k := range v.Keywords {
		if m.contains(k.Term) {
			out = append(out, k.Object)
		}
	}
	return out
}

// Instructions returns the instruction of every rule satisfied by text.
func (v *Vocabulary) Instructions(text string) []string {
	m := newMatcher(text)
	var out []string
	for _, r := range v.Rules {
		if m.satisfies(r) {
			out = append(out, r.Instruction)
		}
	}
	return out
}

// matcher holds the request lowered with default and Turkish casing rules so
// that both "TV" and "İ"-style capitals match their lower-case terms.
type matcher struct {
	forms []string
}

func newMatcher(text string) matcher {
	return matcher{forms: []string{
		strings.ToLower(text),
		cases.Lower(language.Turkish).String(text),
	}}
}

func (m matcher) contains(term string) bool {
	for _, f := range m.forms {
		if strings.Contains(f, term) {
			return true
		}
	}
	return false
}

func (m matcher) satisfies(r SpatialRule) bool {
	for _, group := range r.AllOf {
		hit := false
		for _, term := range group {
			if m.contains(term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func lowerTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
