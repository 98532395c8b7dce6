package config

import (
	"fmt"

	"github.com/Veraticus/budget-sheets/internal/aggregate"
	"github.com/spf13/viper"
)

// LoadSectionMap returns the section keyword table, honoring the
// sections.path override and the sections.fallback name.
func LoadSectionMap() (*aggregate.SectionMap, error) {
	var (
		sm  *aggregate.SectionMap
		err error
	)

	if path := viper.GetString("sections.path"); path != "" {
		sm, err = aggregate.LoadSectionMapFile(ExpandPath(path))
	} else {
		sm, err = aggregate.DefaultSectionMap()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load section map: %w", err)
	}

	if fallback := viper.GetString("sections.fallback"); fallback != "" {
		if err := sm.SetFallback(fallback); err != nil {
			return nil, err
		}
	}

	return sm, nil
}
