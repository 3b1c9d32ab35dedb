package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a CSS theme with metadata.
type Theme struct {
	Name      string    // Theme name (without .css extension)
	Path      string    // Full path to the CSS file (empty when embedded)
	CSS       string    // Content with imports inlined
	ModTime   time.Time // Last modification time
	IsBundled bool
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(configDir, "flashtimer", "themes"), nil
}

// NewTheme loads a theme from a CSS file, resolving @import statements.
func NewTheme(name, path string) (*Theme, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme %s: %w", name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat theme %s: %w", name, err)
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// NewBundledTheme builds a theme from the embedded set.
func NewBundledTheme(name string) (*Theme, bool) {
	css, found := GetEmbeddedTheme(name)
	if !found {
		return nil, false
	}
	return &Theme{
		Name:      name,
		CSS:       ProcessImports(css, "", nil),
		IsBundled: true,
	}, true
}

// Resolve finds a theme by name. A file in dir overrides the bundled theme
// of the same name; unknown names fall back to the default theme.
func Resolve(name, dir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	if dir != "" {
		path := filepath.Join(dir, name+".css")
		if _, err := os.Stat(path); err == nil {
			return NewTheme(name, path)
		}
	}

	if t, ok := NewBundledTheme(name); ok {
		return t, nil
	}

	t, _ := NewBundledTheme(DefaultThemeName)
	return t, fmt.Errorf("theme %q not found, using %s", name, DefaultThemeName)
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir; missing files fall back to
// embedded partials and themes. seen holds the chain of files currently
// being inlined: a file importing one of its ancestors is cut, while a
// partial shared by sibling imports is inlined each time.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true
		defer delete(seen, fullPath)

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embedded, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embedded
				}
			}
			if embedded, found := GetEmbeddedTheme(strings.TrimSuffix(baseName, ".css")); found {
				return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embedded, "", seen)
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		return "/* imported: " + importPath + " */\n" + ProcessImports(string(imported), filepath.Dir(fullPath), seen)
	})
}

// Reload re-reads the theme from disk and reports whether the CSS changed.
// Imported files are re-read too, so an edited partial counts as a change.
func (t *Theme) Reload() (bool, error) {
	if t.IsBundled {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	processed := ProcessImports(string(css), filepath.Dir(t.Path), nil)
	changed := processed != t.CSS
	t.CSS = processed
	t.ModTime = info.ModTime()

	return changed, nil
}

// Info describes an available theme.
type Info struct {
	Name      string
	Path      string
	IsBundled bool
}

// ListAvailable lists bundled themes followed by user themes in dir.
// A user theme with a bundled name is reported once, as the user override.
func ListAvailable(dir string) ([]Info, error) {
	index := make(map[string]int)
	var themes []Info

	for _, name := range ListEmbeddedThemes() {
		index[name] = len(themes)
		themes = append(themes, Info{Name: name, IsBundled: true})
	}

	if dir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" || strings.HasPrefix(name, "_") {
			continue
		}
		themeName := strings.TrimSuffix(name, ".css")
		info := Info{Name: themeName, Path: filepath.Join(dir, name)}
		if i, ok := index[themeName]; ok {
			themes[i] = info
			continue
		}
		index[themeName] = len(themes)
		themes = append(themes, info)
	}

	return themes, nil
}
