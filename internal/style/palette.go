package style

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// Palette maps each risk tier to a display color. Values are passed to the
// renderer verbatim, so any CSS color name or hex code works.
type Palette struct {
	Low    string `toml:"low" yaml:"low" json:"low"`
	Medium string `toml:"medium" yaml:"medium" json:"medium"`
	High   string `toml:"high" yaml:"high" json:"high"`
}

// DefaultPalette is green / yellow / red.
var DefaultPalette = Palette{
	Low:    "green",
	Medium: "yellow",
	High:   "red",
}

// Color returns the palette color for tier. Unknown tiers and blank entries
// fall back to DefaultPalette.
func (p Palette) Color(tier model.RiskTier) string {
	var c, def string
	switch tier {
	case model.TierLow:
		c, def = p.Low, DefaultPalette.Low
	case model.TierMedium:
		c, def = p.Medium, DefaultPalette.Medium
	case model.TierHigh:
		c, def = p.High, DefaultPalette.High
	default:
		return DefaultPalette.Low
	}
	if c == "" {
		return def
	}
	return c
}

// paletteFile is the on-disk layout: a [palette] table (TOML) or a
// palette: mapping (YAML).
type paletteFile struct {
	Palette Palette `toml:"palette" yaml:"palette"`
}

// LoadPalette reads a palette override from path. Files ending in .yaml or
// .yml are parsed as YAML, everything else as TOML. Tiers left out of the
// file keep their default colors.
func LoadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, fmt.Errorf("reading palette: %w", err)
	}
	var f paletteFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Palette{}, fmt.Errorf("parsing palette %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return Palette{}, fmt.Errorf("parsing palette %s: %w", path, err)
		}
	}
	return f.Palette.withDefaults(), nil
}

func (p Palette) withDefaults() Palette {
	if p.Low == "" {
		p.Low = DefaultPalette.Low
	}
	if p.Medium == "" {
		p.Medium = DefaultPalette.Medium
	}
	if p.High == "" {
		p.High = DefaultPalette.High
	}
	return p
}
