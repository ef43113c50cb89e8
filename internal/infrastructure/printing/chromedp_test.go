package printing

import (
	"context"
	"testing"
	"time"

	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrintParams(t *testing.T) {
	t.Run("A4 portrait with default margins", func(t *testing.T) {
		p := buildPrintParams(&RenderRequest{PaperSize: PaperSizeA4, Margins: DefaultMargins()})

		assert.InDelta(t, 8.2677, p.paperWidth, 0.001)
		assert.InDelta(t, 11.6929, p.paperHeight, 0.001)
		assert.InDelta(t, mmToInches(12), p.marginTop, 0.0001)
		assert.InDelta(t, mmToInches(10), p.marginLeft, 0.0001)
		assert.False(t, p.landscape)
		assert.False(t, p.displayFooter)
	})

	t.Run("landscape letter", func(t *testing.T) {
		p := buildPrintParams(&RenderRequest{PaperSize: PaperSizeLetter, Landscape: true})
		assert.InDelta(t, 8.5, p.paperWidth, 0.001)
		assert.InDelta(t, 11.0, p.paperHeight, 0.001)
		assert.True(t, p.landscape)
	})

	t.Run("footer reserves bottom margin", func(t *testing.T) {
		p := buildPrintParams(&RenderRequest{PaperSize: PaperSizeA5, FooterHTML: "<div>page</div>"})
		assert.True(t, p.displayFooter)
		assert.Equal(t, "<div>page</div>", p.footerTemplate)
		assert.InDelta(t, mmToInches(15), p.marginBottom, 0.0001)
	})
}

func TestBuildCompleteHTML(t *testing.T) {
	full := "<!DOCTYPE html><html><body>invoice</body></html>"
	assert.Equal(t, full, buildCompleteHTML(&RenderRequest{HTML: full}))

	bare := "<html><body>invoice</body></html>"
	assert.Equal(t, bare, buildCompleteHTML(&RenderRequest{HTML: bare}))

	out := buildCompleteHTML(&RenderRequest{HTML: "<div>LO-2025-00001</div>", Title: "Tom & Co"})
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<meta charset="UTF-8">`)
	assert.Contains(t, out, "<title>Tom &amp; Co</title>")
	assert.Contains(t, out, "<body><div>LO-2025-00001</div></body></html>")
}

func TestCountPages(t *testing.T) {
	pdf := []byte("%PDF-1.4 /Type /Pages /Kids [] /Type /Page /Type /Page %%EOF")
	assert.Equal(t, 2, countPages(pdf))
	assert.Equal(t, 1, countPages([]byte("%PDF-1.4")))
}

func TestNewChromedpRenderer(t *testing.T) {
	_, err := NewChromedpRenderer(config.PrintingConfig{PaperSize: "A3"}, nil)
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidPaperSize, re.Code)

	r, err := NewChromedpRenderer(config.PrintingConfig{PaperSize: "a4", RemoteURL: "ws://127.0.0.1:9222"}, nil)
	require.NoError(t, err)
	assert.Equal(t, PaperSizeA4, r.paperSize)
	assert.Equal(t, defaultChromeTimeout, r.timeout)
	assert.NoError(t, r.Close())
}

func TestChromedpRenderer_RejectsEmptyHTML(t *testing.T) {
	r, err := NewChromedpRenderer(config.PrintingConfig{PaperSize: "A4", Timeout: time.Second}, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "   "})
	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidHTML, re.Code)

	_, err = r.Render(context.Background(), &RenderRequest{HTML: "<p>x</p>", PaperSize: "B5"})
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeInvalidPaperSize, re.Code)
}
