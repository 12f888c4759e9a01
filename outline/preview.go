package outline

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var previewMD = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderPreview renders the recovered outline markdown to an HTML fragment
// so the user can inspect the slide plan before (or after) fusion.
func RenderPreview(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := previewMD.Convert([]byte(doc), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
