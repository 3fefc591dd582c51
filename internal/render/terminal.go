package render

import (
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"

	"github.com/colonyops/todomanage/internal/core/styles"
)

var errRendererPanic = errors.New("markdown renderer panicked")

type markdownRenderer interface {
	Render(string) (string, error)
}

type rendererKey struct {
	width int
	plain bool
}

var (
	rendererMu sync.Mutex
	renderers  = map[rendererKey]markdownRenderer{}
)

// Terminal formats details markdown for terminal output. When plain is set the
// ASCII style is used so that output piped to a file carries no escape codes.
// Rendering failures fall back to the input text.
func Terminal(width int, plain bool, details string) string {
	value := strings.TrimRight(strings.ReplaceAll(details, "\r\n", "\n"), "\n")
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if width < 1 {
		width = 1
	}

	r := terminalRenderer(rendererKey{width: width, plain: plain})
	if r == nil {
		return value
	}

	out, err := safeRender(r, value)
	if err != nil {
		return value
	}

	return strings.TrimRight(out, "\n")
}

func safeRender(r markdownRenderer, value string) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = value, errRendererPanic
		}
	}()
	return r.Render(value)
}

func terminalRenderer(key rendererKey) markdownRenderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[key]; ok {
		return cached
	}

	style := styles.GlamourStyle()
	if key.plain {
		style = glamourstyles.ASCIIStyleConfig
		style.Item.BlockPrefix = "- "
	}

	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(key.width),
	)
	if err != nil {
		return nil
	}
	renderers[key] = created
	return created
}
