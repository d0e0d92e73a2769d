// Package render turns a content document into an ordered sequence of
// self-contained rendering units, one per input block. Each unit carries
// everything the presentation layer needs (kind, resolved URL, text,
// caption, rows) so templates never consult the original block. Failures
// are isolated per block: a malformed or unrecognized block becomes a
// visible diagnostic unit and its siblings render normally.
package render

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ndelchev/newsfront/internal/content"
)

// UnitKind discriminates the rendering unit variants.
type UnitKind string

const (
	UnitEmpty       UnitKind = "empty"   // whole document has no blocks
	UnitSkipped     UnitKind = "skipped" // block intentionally produced no output
	UnitParagraph   UnitKind = "paragraph"
	UnitHeader      UnitKind = "header"
	UnitList        UnitKind = "list"
	UnitQuote       UnitKind = "quote"
	UnitImage       UnitKind = "image"
	UnitVideo       UnitKind = "video"
	UnitEmbed       UnitKind = "embed"
	UnitTable       UnitKind = "table"
	UnitCode        UnitKind = "code"
	UnitWarning     UnitKind = "warning"
	UnitDelimiter   UnitKind = "delimiter"
	UnitUnsupported UnitKind = "unsupported" // unrecognized block type
	UnitFailed      UnitKind = "failed"      // block payload could not be decoded
)

// Unit is one rendered output. Only the fields relevant to its Kind are
// populated.
type Unit struct {
	Kind        UnitKind
	BlockID     string
	BlockType   string // set on unsupported and failed diagnostics
	Highlighted bool

	Text    string
	Level   int
	Ordered bool
	Items   []string
	URL     string
	Caption string
	Rows    [][]string
	Title   string
	Message string
	Reason  string
}

// Visible reports whether the unit produces output on the page. Skipped
// units exist so callers can account for every input block.
func (u Unit) Visible() bool {
	return u.Kind != UnitSkipped
}

// Renderer converts documents to units. It holds only a logger; rendering
// is synchronous, idempotent and shares no state between documents.
type Renderer struct {
	log *slog.Logger
}

// New creates a Renderer. A nil logger discards output.
func New(log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{log: log}
}

// Document renders every block of doc in order, exactly one unit per
// block. An absent or empty document yields a single empty-state unit so
// the page shows "no content" instead of nothing.
func (r *Renderer) Document(doc *content.Document) []Unit {
	if doc == nil || len(doc.Blocks) == 0 {
		return []Unit{{Kind: UnitEmpty}}
	}

	units := make([]Unit, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		units = append(units, r.block(b))
	}
	return units
}

func (r *Renderer) block(b content.Block) Unit {
	meta := b.BlockMeta()
	skip := Unit{Kind: UnitSkipped, BlockID: meta.ID}

	switch v := b.(type) {
	case content.Paragraph:
		if v.Text == "" {
			return skip
		}
		return Unit{Kind: UnitParagraph, BlockID: meta.ID, Highlighted: meta.Highlighted, Text: v.Text}

	case content.Header:
		if v.Text == "" {
			return skip
		}
		return Unit{
			Kind:        UnitHeader,
			BlockID:     meta.ID,
			Highlighted: meta.Highlighted,
			Text:        v.Text,
			Level:       clampLevel(v.Level),
		}

	case content.List:
		if len(v.Items) == 0 {
			return skip
		}
		return Unit{
			Kind:        UnitList,
			BlockID:     meta.ID,
			Highlighted: meta.Highlighted,
			Ordered:     v.Style == content.ListOrdered,
			Items:       v.Items,
		}

	case content.Quote:
		if v.Text == "" {
			return skip
		}
		return Unit{Kind: UnitQuote, BlockID: meta.ID, Highlighted: meta.Highlighted, Text: v.Text, Caption: v.Caption}

	case content.Image:
		if v.URL == "" {
			r.log.Warn("image block has no resolvable url", slog.String("block_id", meta.ID))
			return skip
		}
		return Unit{Kind: UnitImage, BlockID: meta.ID, Highlighted: meta.Highlighted, URL: v.URL, Caption: v.Caption}

	case content.Video:
		url := v.PlayerURL()
		if url == "" {
			return skip
		}
		return Unit{Kind: UnitVideo, BlockID: meta.ID, Highlighted: meta.Highlighted, URL: url, Caption: v.Caption}

	case content.Embed:
		if v.URL == "" {
			return skip
		}
		return Unit{Kind: UnitEmbed, BlockID: meta.ID, Highlighted: meta.Highlighted, URL: v.URL, Caption: v.Caption}

	case content.Table:
		if len(v.Rows) == 0 {
			return skip
		}
		return Unit{Kind: UnitTable, BlockID: meta.ID, Highlighted: meta.Highlighted, Rows: v.Rows}

	case content.Code:
		if v.Code == "" {
			return skip
		}
		return Unit{Kind: UnitCode, BlockID: meta.ID, Highlighted: meta.Highlighted, Text: v.Code}

	case content.Warning:
		// The presence of the block is itself the signal, so it renders
		// even with an empty title and message.
		return Unit{Kind: UnitWarning, BlockID: meta.ID, Highlighted: meta.Highlighted, Title: v.Title, Message: v.Message}

	case content.Delimiter:
		return Unit{Kind: UnitDelimiter, BlockID: meta.ID}

	case content.Unknown:
		r.log.Warn("unsupported block type", slog.String("type", v.RawType), slog.String("block_id", meta.ID))
		return Unit{Kind: UnitUnsupported, BlockID: meta.ID, BlockType: v.RawType}

	case content.Broken:
		r.log.Warn("block failed to render",
			slog.String("type", v.RawType),
			slog.String("block_id", meta.ID),
			slog.Any("err", v.Err),
		)
		return Unit{Kind: UnitFailed, BlockID: meta.ID, BlockType: v.RawType, Reason: v.Err.Error()}

	default:
		return Unit{Kind: UnitUnsupported, BlockID: meta.ID, BlockType: fmt.Sprintf("%T", b)}
	}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
