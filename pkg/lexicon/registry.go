package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when a requested language has no lexicon.
const DefaultLanguage = "en"

// Registry holds lexicons keyed by base language tag.
type Registry struct {
	mu       sync.RWMutex
	byLang   map[string]*Lexicon
	fallback string
}

// NewRegistry returns a registry preloaded with the built-in lexicons.
func NewRegistry() *Registry {
	r := &Registry{
		byLang:   make(map[string]*Lexicon),
		fallback: DefaultLanguage,
	}
	r.byLang["en"] = English()
	r.byLang["ko"] = Korean()
	return r
}

// Register adds or replaces the lexicon for its language.
func (r *Registry) Register(l *Lexicon) error {
	if err := l.Validate(); err != nil {
		return err
	}
	key := BaseLanguage(l.Language)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLang[key] = l
	return nil
}

// Get returns the lexicon registered for lang.
func (r *Registry) Get(lang string) (*Lexicon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byLang[BaseLanguage(lang)]
	return l, ok
}

// Resolve returns the lexicon for lang, or the default lexicon.
func (r *Registry) Resolve(lang string) *Lexicon {
	if l, ok := r.Get(lang); ok {
		return l
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byLang[r.fallback]
}

// Languages lists registered language tags in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.byLang))
	for k := range r.byLang {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	return langs
}

type fileHeader struct {
	Language string `yaml:"language"`
	Extends  string `yaml:"extends"`
}

// LoadFile reads a YAML lexicon and registers it.
//
// A file may set `extends: <lang>` to start from an already registered
// lexicon and override only the keys it lists.
func (r *Registry) LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	l, err := r.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	if err := r.Register(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Parse decodes a YAML lexicon without registering it.
func (r *Registry) Parse(data []byte) (*Lexicon, error) {
	var head fileHeader
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse lexicon yaml: %w", err)
	}

	l := &Lexicon{}
	if head.Extends != "" {
		base, ok := r.Get(head.Extends)
		if !ok {
			return nil, fmt.Errorf("unknown base lexicon %q", head.Extends)
		}
		l = base.Clone()
	}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("parse lexicon yaml: %w", err)
	}
	if l.Language == "" {
		l.Language = head.Extends
	}
	if l.MatchMode == "" {
		l.MatchMode = MatchPrefix
	}
	return l, l.Validate()
}

// BaseLanguage reduces a BCP 47 tag such as "en-US" to its base ("en").
func BaseLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil {
		return strings.ToLower(tag)
	}
	base, _ := t.Base()
	return base.String()
}
