// Package assets loads the named ASCII textures drawn by the scene.
package assets

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ErrMissingTexture is returned when a texture name is not in the catalog.
var ErrMissingTexture = errors.New("missing texture")

// Texture is a block of character cells with one colour.
type Texture struct {
	Name   string
	Width  int
	Height int
	Color  core.Color
	Opaque bool
	rows   [][]rune
}

// At returns the rune at (x, y) counted from the texture's top-left,
// wrapping in both directions so textures tile. The second result is false
// for transparent cells.
func (t *Texture) At(x, y int) (rune, bool) {
	if t.Width == 0 || t.Height == 0 {
		return ' ', false
	}
	x = ((x % t.Width) + t.Width) % t.Width
	y = ((y % t.Height) + t.Height) % t.Height
	r := t.rows[y][x]
	if r == ' ' && !t.Opaque {
		return r, false
	}
	return r, true
}

// Size returns the texture dimensions in world units.
func (t *Texture) Size() core.Vec {
	return core.Vec{X: float64(t.Width), Y: float64(t.Height)}
}

type textureEntry struct {
	Name   string   `yaml:"name"`
	Art    []string `yaml:"art"`
	Fill   string   `yaml:"fill"`
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Color  string   `yaml:"color"`
	Opaque bool     `yaml:"opaque"`
}

type catalogFile struct {
	Textures []textureEntry `yaml:"textures"`
}

// Catalog is an immutable set of textures keyed by name.
type Catalog struct {
	textures map[string]*Texture
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// LoadFile parses a catalog file from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("assets: parse catalog: %w", err)
	}

	c := &Catalog{textures: make(map[string]*Texture, len(file.Textures))}
	for i, e := range file.Textures {
		tex, err := e.build()
		if err != nil {
			return nil, fmt.Errorf("assets: texture #%d: %w", i, err)
		}
		if _, dup := c.textures[tex.Name]; dup {
			return nil, fmt.Errorf("assets: duplicate texture %q", tex.Name)
		}
		c.textures[tex.Name] = tex
	}
	return c, nil
}

func (e textureEntry) build() (*Texture, error) {
	if e.Name == "" {
		return nil, errors.New("name is required")
	}
	color, ok := core.ParseColor(e.Color)
	if !ok {
		return nil, fmt.Errorf("%s: unknown color %q", e.Name, e.Color)
	}
	tex := &Texture{Name: e.Name, Color: color, Opaque: e.Opaque}

	switch {
	case e.Fill != "" && len(e.Art) > 0:
		return nil, fmt.Errorf("%s: art and fill are exclusive", e.Name)
	case e.Fill != "":
		fill := []rune(e.Fill)
		if len(fill) != 1 || e.Width <= 0 || e.Height <= 0 {
			return nil, fmt.Errorf("%s: fill needs one rune and a positive size", e.Name)
		}
		row := []rune(strings.Repeat(e.Fill, e.Width))
		for y := 0; y < e.Height; y++ {
			tex.rows = append(tex.rows, row)
		}
		tex.Width, tex.Height = e.Width, e.Height
	case len(e.Art) > 0:
		for _, line := range e.Art {
			tex.Width = max(tex.Width, len([]rune(line)))
		}
		for _, line := range e.Art {
			row := []rune(line)
			for len(row) < tex.Width {
				row = append(row, ' ')
			}
			tex.rows = append(tex.rows, row)
		}
		tex.Height = len(tex.rows)
	default:
		return nil, fmt.Errorf("%s: needs art or fill", e.Name)
	}
	return tex, nil
}

// Texture looks up a texture by name.
func (c *Catalog) Texture(name string) (*Texture, error) {
	tex, ok := c.textures[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTexture, name)
	}
	return tex, nil
}

// Require checks that every name is present, reporting all missing ones at once.
func (c *Catalog) Require(names ...string) error {
	var errs []error
	for _, name := range names {
		if _, err := c.Texture(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Names returns the texture names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.textures))
	for name := range c.textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
