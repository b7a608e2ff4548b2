package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/zucenko/minefield/model"
	"gopkg.in/yaml.v3"
)

var ErrUnknownPreset = errors.New("unknown preset")

type Preset struct {
	Rows  int `yaml:"rows" json:"rows"`
	Cols  int `yaml:"cols" json:"cols"`
	Mines int `yaml:"mines" json:"mines"`
}

type Presets map[string]Preset

func DefaultPresets() Presets {
	return Presets{
		"beginner":     {Rows: 9, Cols: 9, Mines: 10},
		"intermediate": {Rows: 16, Cols: 16, Mines: 40},
		"expert":       {Rows: 16, Cols: 30, Mines: 99},
	}
}

type presetsFile struct {
	Presets Presets `yaml:"presets"`
}

// ReadPresets decodes a presets document and validates every entry. Entries
// override the defaults of the same name.
func ReadPresets(r io.Reader) (Presets, error) {
	var f presetsFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode presets: %w", err)
	}
	presets := DefaultPresets()
	for name, p := range f.Presets {
		if err := model.Validate(p.Rows, p.Cols, p.Mines); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		presets[name] = p
	}
	return presets, nil
}

func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return DefaultPresets(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer file.Close()
	return ReadPresets(file)
}

func (p Presets) Get(name string) (Preset, error) {
	preset, ok := p[name]
	if !ok {
		return Preset{}, fmt.Errorf("%s: %w", name, ErrUnknownPreset)
	}
	return preset, nil
}

// Names lists presets in alphabetical order.
func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
