// Package aggregate computes dashboard totals from the ledger.
package aggregate

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/Veraticus/budget-sheets/internal/common"
	"github.com/Veraticus/budget-sheets/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed sections.yaml
var defaultSections []byte

// Section is one dashboard rollup group.
type Section struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	// Type, when set, routes every entry of that budget type here.
	Type model.BudgetType `yaml:"type,omitempty"`
}

type sectionFile struct {
	Fallback string    `yaml:"fallback"`
	Sections []Section `yaml:"sections"`
}

// SectionMap resolves categories to sections. It is immutable after loading.
type SectionMap struct {
	byType   map[model.BudgetType]string
	fallback string
	sections []Section
}

// DefaultSectionMap returns the built-in section table.
func DefaultSectionMap() (*SectionMap, error) {
	return ParseSectionMap(defaultSections)
}

// LoadSectionMapFile reads a section table from a YAML file.
func LoadSectionMapFile(path string) (*SectionMap, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read section map %s: %w", path, err)
	}
	return ParseSectionMap(data)
}

// ParseSectionMap decodes and validates a YAML section table.
func ParseSectionMap(data []byte) (*SectionMap, error) {
	var f sectionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: section map: %v", common.ErrInvalidConfig, err)
	}
	return NewSectionMap(f.Sections, f.Fallback)
}

// NewSectionMap validates sections and builds a map. Names must be non-empty
// and unique, and fallback must name one of them.
func NewSectionMap(sections []Section, fallback string) (*SectionMap, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: no sections declared", common.ErrInvalidConfig)
	}

	sm := &SectionMap{
		byType:   make(map[model.BudgetType]string),
		sections: make([]Section, 0, len(sections)),
	}

	seen := make(map[string]bool, len(sections))
	for _, s := range sections {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, fmt.Errorf("%w: section with empty name", common.ErrInvalidConfig)
		}
		if seen[strings.ToUpper(s.Name)] {
			return nil, fmt.Errorf("%w: duplicate section %q", common.ErrInvalidConfig, s.Name)
		}
		seen[strings.ToUpper(s.Name)] = true

		if s.Type != "" {
			s.Type = model.ParseBudgetType(string(s.Type))
			if _, dup := sm.byType[s.Type]; dup {
				return nil, fmt.Errorf("%w: type %s claimed by more than one section", common.ErrInvalidConfig, s.Type)
			}
			sm.byType[s.Type] = s.Name
		}

		keywords := make([]string, 0, len(s.Keywords))
		for _, k := range s.Keywords {
			if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		s.Keywords = keywords
		sm.sections = append(sm.sections, s)
	}

	if err := sm.SetFallback(fallback); err != nil {
		return nil, err
	}
	return sm, nil
}

// SetFallback changes the section that receives unmatched categories.
func (sm *SectionMap) SetFallback(name string) error {
	name = strings.TrimSpace(name)
	for _, s := range sm.sections {
		if strings.EqualFold(s.Name, name) {
			sm.fallback = s.Name
			return nil
		}
	}
	return fmt.Errorf("%w: fallback section %q is not declared", common.ErrInvalidConfig, name)
}

// Fallback is the section for categories no keyword matches.
func (sm *SectionMap) Fallback() string {
	return sm.fallback
}

// Names lists the sections in declaration order.
func (sm *SectionMap) Names() []string {
	names := make([]string, len(sm.sections))
	for i, s := range sm.sections {
		names[i] = s.Name
	}
	return names
}

// Resolve returns the single section an entry belongs to. Typed sections
// win first. Keyword matching then walks sections in order, skipping
// sections reserved for non-spending types so spending never lands there.
func (sm *SectionMap) Resolve(category string, budgetType model.BudgetType) string {
	if name, ok := sm.byType[budgetType]; ok {
		return name
	}

	cat := strings.ToUpper(category)
	if strings.TrimSpace(cat) != "" {
		for _, s := range sm.sections {
			if s.Type != "" && !s.Type.IsSpending() {
				continue
			}
			for _, k := range s.Keywords {
				if strings.Contains(cat, k) {
					return s.Name
				}
			}
		}
	}
	return sm.fallback
}
