// Package tui provides the color palette and lipgloss styles used to paint
// notebook output.
package tui

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// ResolveTheme loads a theme with the following precedence:
//  1. NO_COLOR env var set → returns NoColorTheme (industry standard)
//  2. NBPREVIEW_COLORS env var → parse custom colors.toml file
//  3. User theme from ~/.config/nbpreview/colors.toml
//  4. Default nbpreview theme
//
// The user file can be a symlink to a terminal theme's colors.toml.
func ResolveTheme() Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return NoColorTheme()
	}

	if path := os.Getenv("NBPREVIEW_COLORS"); path != "" {
		if theme, err := LoadThemeFromFile(path); err == nil {
			return theme
		}
		// Fall through on error
	}

	if theme, err := LoadUserTheme(); err == nil {
		return theme
	}

	return DefaultTheme()
}

// NoColorTheme returns a theme with empty colors (honors NO_COLOR standard).
// Lipgloss treats empty strings as "no color", resulting in plain text output.
func NoColorTheme() Theme {
	empty := lipgloss.AdaptiveColor{Light: "", Dark: ""}
	return Theme{
		Indicator:        empty,
		StderrBackground: empty,
		Link:             empty,
		Border:           empty,
		Heading:          empty,
		Error:            empty,
		Muted:            empty,
	}
}

// LoadUserTheme attempts to load a theme from the user's nbpreview config.
func LoadUserTheme() (Theme, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Theme{}, err
	}

	path := filepath.Join(home, ".config", "nbpreview", "colors.toml")
	return LoadThemeFromFile(path)
}

// LoadThemeFromFile parses a colors.toml file and returns a Theme.
func LoadThemeFromFile(path string) (Theme, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path from trusted config
	if err != nil {
		return Theme{}, err
	}

	colors, err := parseColors(data)
	if err != nil {
		return Theme{}, err
	}

	return mapColorsToTheme(colors), nil
}

// parseColors decodes a colors.toml document, keeping top-level string
// values that are valid colors. Tables and other value types are ignored.
func parseColors(data []byte) (map[string]string, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for key, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if !isValidColor(s) {
			continue
		}
		result[key] = s
	}
	return result, nil
}

// isValidColor accepts hex colors (#RGB or #RRGGBB) and ANSI 256 palette
// indexes ("0" to "255").
func isValidColor(s string) bool {
	if n, err := strconv.Atoi(s); err == nil {
		return n >= 0 && n <= 255
	}
	return isValidHexColor(s)
}

// isValidHexColor checks if a string is a valid hex color (#RGB or #RRGGBB).
func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for _, c := range hex {
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		isUpper := c >= 'A' && c <= 'F'
		if !isDigit && !isLower && !isUpper {
			return false
		}
	}
	return true
}

// mapColorsToTheme maps colors.toml color names to the nbpreview palette.
//
// Named keys win over terminal palette keys:
//
//	indicator = "247"          → Indicator (color8 fallback)
//	stderr_background = "174"  → StderrBackground (color1 fallback)
//	link = "12"                → Link (accent, color4 fallback)
//	border = "#585b70"         → Border (color8 fallback)
//	heading = "#cdd6f4"        → Heading (foreground fallback)
//	error = "#f38ba8"          → Error (color1 fallback)
//	muted = "#6e7681"          → Muted (color8 fallback)
func mapColorsToTheme(colors map[string]string) Theme {
	defaults := DefaultTheme()

	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := colors[k]; ok {
				return v
			}
		}
		return ""
	}

	// A configured color applies to both light and dark backgrounds.
	color := func(value string, fallback lipgloss.AdaptiveColor) lipgloss.AdaptiveColor {
		if value == "" {
			return fallback
		}
		return lipgloss.AdaptiveColor{Light: value, Dark: value}
	}

	return Theme{
		Indicator:        color(get("indicator", "color8"), defaults.Indicator),
		StderrBackground: color(get("stderr_background", "color1"), defaults.StderrBackground),
		Link:             color(get("link", "accent", "color4"), defaults.Link),
		Border:           color(get("border", "color8"), defaults.Border),
		Heading:          color(get("heading", "foreground"), defaults.Heading),
		Error:            color(get("error", "color1"), defaults.Error),
		Muted:            color(get("muted", "color8"), defaults.Muted),
	}
}
