package plan

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Gear errors.
var (
	ErrGearNameEmpty = errors.New("gear item name cannot be empty")
	ErrGearDuplicate = errors.New("gear item already exists")
	ErrGearNotFound  = errors.New("gear item not found")
	ErrPresetInvalid = errors.New("invalid gear preset catalog")
)

//go:embed presets.yaml
var presetsYAML []byte

// Presets maps a preset key (a season, or "dayhike") to its item names.
type Presets map[string][]string

var defaultPresets = sync.OnceValue(func() Presets {
	p, err := ParsePresets(presetsYAML)
	if err != nil {
		panic(err)
	}

	return p
})

// DefaultPresets returns the built-in preset catalog.
func DefaultPresets() Presets {
	return defaultPresets()
}

// ParsePresets decodes and validates a YAML preset catalog.
func ParsePresets(data []byte) (Presets, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", ErrPresetInvalid)
	}

	var p Presets

	err := yaml.Unmarshal(data, &p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPresetInvalid, err)
	}

	for key, items := range p {
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: preset %q is empty", ErrPresetInvalid, key)
		}

		seen := make(map[string]bool, len(items))

		for _, item := range items {
			name := strings.ToLower(strings.TrimSpace(item))
			if name == "" {
				return nil, fmt.Errorf("%w: preset %q has a blank item", ErrPresetInvalid, key)
			}

			if seen[name] {
				return nil, fmt.Errorf("%w: preset %q lists %q twice", ErrPresetInvalid, key, item)
			}

			seen[name] = true
		}
	}

	return p, nil
}

// For returns the preset for a trip. Day hikes use the day-hike list
// regardless of season; backpacking trips use the season's list, and have
// none until a season is chosen.
func (p Presets) For(tripType, season string) ([]string, bool) {
	key := season
	if tripType == TripDayhike {
		key = TripDayhike
	}

	items, ok := p[key]
	if !ok || key == "" {
		return nil, false
	}

	return items, true
}

// MergePreset rebuilds a checklist around preset. Preset items come first in
// preset order and keep their checked state if they were already listed;
// custom items follow in their existing order. Non-custom items missing from
// the preset are dropped. A preset name that matches a custom item is left to
// the custom item. Merging the same preset twice is a no-op.
func MergePreset(checklist []GearItem, preset []string) []GearItem {
	checked := make(map[string]bool, len(checklist))
	custom := make(map[string]bool)

	for _, item := range checklist {
		key := strings.ToLower(item.Name)
		if item.Custom {
			custom[key] = true

			continue
		}

		checked[key] = checked[key] || item.Checked
	}

	out := make([]GearItem, 0, len(preset)+len(custom))

	for _, name := range preset {
		key := strings.ToLower(name)
		if custom[key] {
			continue
		}

		out = append(out, GearItem{Name: name, Checked: checked[key]})
	}

	for _, item := range checklist {
		if item.Custom {
			out = append(out, item)
		}
	}

	return out
}

// AddCustomGear appends a user item. The trimmed name must be non-empty and
// must not match any listed item, ignoring case.
func AddCustomGear(checklist []GearItem, name string) ([]GearItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return checklist, ErrGearNameEmpty
	}

	if FindGear(checklist, name) >= 0 {
		return checklist, fmt.Errorf("%w: %s", ErrGearDuplicate, name)
	}

	return append(checklist, GearItem{Name: name, Custom: true}), nil
}

// RemoveCustomGear deletes a custom item by name. Preset items cannot be
// removed this way.
func RemoveCustomGear(checklist []GearItem, name string) ([]GearItem, error) {
	i := FindGear(checklist, name)
	if i < 0 || !checklist[i].Custom {
		return checklist, fmt.Errorf("%w: %s", ErrGearNotFound, name)
	}

	return append(checklist[:i:i], checklist[i+1:]...), nil
}

// FindGear returns the index of the item named name, ignoring case and
// surrounding space, or -1.
func FindGear(checklist []GearItem, name string) int {
	name = strings.TrimSpace(name)

	for i, item := range checklist {
		if strings.EqualFold(item.Name, name) {
			return i
		}
	}

	return -1
}
