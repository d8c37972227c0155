package surface

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var markdown = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// Markdown renders the document as Markdown for a terminal preview.
func (d *Document) Markdown() (string, error) {
	md, err := markdown.ConvertString(d.HTML())
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return md, nil
}
