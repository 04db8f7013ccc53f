package level

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.txt
var builtinFS embed.FS

// ErrUnknownLevel is returned when a built-in level id does not exist.
var ErrUnknownLevel = errors.New("level: unknown level")

// YAMLLevel is the on-disk YAML form of a level.
type YAMLLevel struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Width int      `yaml:"width,omitempty"`
	Rows  []string `yaml:"rows"`
}

// ParseYAML parses a YAML level. A zero width in the file falls back to
// defaultWidth.
func ParseYAML(data []byte, defaultWidth int) (*Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("level: yaml unmarshal: %w", err)
	}

	width := yl.Width
	if width <= 0 {
		width = defaultWidth
	}

	return FromRows(yl.ID, yl.Name, width, yl.Rows), nil
}

// Load reads a level file. YAML files (.yaml, .yml) are parsed as YAMLLevel,
// anything else as plain rows. The file name is used as id when missing.
func Load(file string, width int) (*Level, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", file, err)
	}

	base := filepath.Base(file)
	ext := strings.ToLower(filepath.Ext(base))
	id := strings.TrimSuffix(base, filepath.Ext(base))

	var lvl *Level
	switch ext {
	case ".yaml", ".yml":
		lvl, err = ParseYAML(data, width)
	default:
		lvl, err = Parse(bytes.NewReader(data), width)
	}
	if err != nil {
		return nil, fmt.Errorf("level: parse %s: %w", file, err)
	}

	if lvl.ID == "" {
		lvl.ID = id
	}
	if lvl.Name == "" {
		lvl.Name = displayName(lvl.ID)
	}
	return lvl, nil
}

// Builtin returns an embedded level by id.
func Builtin(id string, width int) (*Level, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", id+".txt"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}

	lvl, err := Parse(bytes.NewReader(data), width)
	if err != nil {
		return nil, err
	}
	lvl.ID = id
	lvl.Name = displayName(id)
	return lvl, nil
}

// BuiltinIDs lists embedded level ids in sorted order.
func BuiltinIDs() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".txt") {
			ids = append(ids, strings.TrimSuffix(name, ".txt"))
		}
	}
	sort.Strings(ids)
	return ids
}

// Resolve loads a level from a file path when one exists on disk, and from
// the built-in set otherwise.
func Resolve(ref string, width int) (*Level, error) {
	if _, err := os.Stat(ref); err == nil {
		return Load(ref, width)
	}
	return Builtin(ref, width)
}

// displayName turns "long_sprint" into "Long Sprint".
func displayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
