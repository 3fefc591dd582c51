package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/todomanage/internal/core/status"
)

func TestThemes(t *testing.T) {
	assert.Equal(t, []string{"gruvbox", "tokyo-night"}, ThemeNames())

	_, ok := GetPalette("solarized")
	assert.False(t, ok)

	p, ok := GetPalette("gruvbox")
	require.True(t, ok)

	prev := CurrentPalette
	t.Cleanup(func() { SetTheme(prev) })

	SetTheme(p)
	assert.Equal(t, p, CurrentPalette)

	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, string(p.Foreground), *cfg.Document.Color)
}

func TestResolvePalette(t *testing.T) {
	p, ok := ResolvePalette("gruvbox")
	assert.True(t, ok)
	want, _ := GetPalette("gruvbox")
	assert.Equal(t, want, p)

	p, ok = ResolvePalette("neon")
	assert.False(t, ok)
	def, _ := GetPalette(DefaultTheme)
	assert.Equal(t, def, p)
}

func TestStatusStyle(t *testing.T) {
	assert.Equal(t, CurrentPalette.Success, StatusStyle(status.Done).GetForeground())
	assert.Equal(t, CurrentPalette.Muted, StatusStyle(status.Pending).GetForeground())
}
