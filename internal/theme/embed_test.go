package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme_Default(t *testing.T) {
	css, found := GetEmbeddedTheme("default")
	require.True(t, found, "default theme should be found")
	assert.NotEmpty(t, css)
	assert.Contains(t, css, ".flashtimer-countdown")
	assert.Contains(t, css, `@import "_palette.css"`)
}

func TestGetEmbeddedTheme_NotFound(t *testing.T) {
	for _, name := range []string{"nonexistent", "", "_palette"} {
		css, found := GetEmbeddedTheme(name)
		assert.False(t, found, name)
		assert.Empty(t, css)
	}
}

func TestGetEmbeddedPartial(t *testing.T) {
	for _, name := range []string{"_palette.css", "_palette", "palette"} {
		css, found := GetEmbeddedPartial(name)
		require.True(t, found, name)
		assert.Contains(t, css, "@define-color ft_green")
	}

	_, found := GetEmbeddedPartial("_nonexistent.css")
	assert.False(t, found)
}

func TestListEmbeddedThemes(t *testing.T) {
	themes := ListEmbeddedThemes()
	assert.ElementsMatch(t, BundledThemes, themes)
	for _, name := range themes {
		assert.False(t, strings.HasPrefix(name, "_"), "partial listed as theme: %s", name)
	}
}

func TestIsEmbeddedTheme(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"default", true},
		{"high-contrast", true},
		{"nonexistent", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEmbeddedTheme(tt.name))
		})
	}
}

func TestBundledThemes_HaveRequiredClasses(t *testing.T) {
	for _, themeName := range BundledThemes {
		t.Run(themeName, func(t *testing.T) {
			css, found := GetEmbeddedTheme(themeName)
			require.True(t, found)

			for _, class := range RequiredClasses {
				assert.Contains(t, css, class, "theme %s should style %s", themeName, class)
			}
		})
	}
}

func TestBundledThemes_ValidCSS(t *testing.T) {
	for _, themeName := range BundledThemes {
		t.Run(themeName, func(t *testing.T) {
			theme, found := NewBundledTheme(themeName)
			require.True(t, found)

			assert.Equal(t, strings.Count(theme.CSS, "{"), strings.Count(theme.CSS, "}"),
				"theme %s should have balanced braces", themeName)
			assert.NotContains(t, theme.CSS, "import failed")
			assert.NotContains(t, theme.CSS, "{{")
		})
	}
}
