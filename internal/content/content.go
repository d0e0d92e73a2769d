// Package content defines the canonical in-memory form of the block-based
// article documents produced by the CMS editor, and the single decode step
// that turns the wire representation (a JSON object, or the same object
// wrapped in a JSON string) into it. Everything downstream of this package
// operates only on the canonical types.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Document is an ordered sequence of content blocks. Rendering order is
// document order. A document with no blocks is valid.
type Document struct {
	Version string
	Time    int64
	Blocks  []Block
}

// Meta carries the attributes common to every block: the editor-assigned
// identifier and the editorial highlight tune.
type Meta struct {
	ID          string
	Highlighted bool
}

// BlockMeta makes any type embedding Meta a Block.
func (m Meta) BlockMeta() Meta { return m }

// Block is one unit of rich content. The concrete types are Paragraph,
// Header, List, Quote, Image, Video, Embed, Table, Code, Warning and
// Delimiter, plus Unknown for unrecognized type tags and Broken for blocks
// whose payload could not be decoded.
type Block interface {
	BlockMeta() Meta
}

// ListStyle selects ordered or unordered list rendering.
type ListStyle string

const (
	ListOrdered   ListStyle = "ordered"
	ListUnordered ListStyle = "unordered"
)

type Paragraph struct {
	Meta
	Text string
}

type Header struct {
	Meta
	Text  string
	Level int
}

type List struct {
	Meta
	Style ListStyle
	Items []string
}

type Quote struct {
	Meta
	Text    string
	Caption string
}

// Image holds the URL already resolved from the editor's field variants
// (url, then file.url, then src) and the caption (caption, then alt). URL
// is empty when none of the variants was present.
type Image struct {
	Meta
	URL     string
	Caption string
}

// Video carries the precomputed embeddable URL when the editor stored one,
// and the original source URL otherwise (url, then source, then file.url).
type Video struct {
	Meta
	EmbedURL  string
	SourceURL string
	Caption   string
}

// PlayerURL returns the URL to put in an iframe, preferring the embed form.
func (v Video) PlayerURL() string {
	if v.EmbedURL != "" {
		return v.EmbedURL
	}
	return v.SourceURL
}

type Embed struct {
	Meta
	URL     string
	Caption string
}

type Table struct {
	Meta
	Rows [][]string
}

type Code struct {
	Meta
	Code string
}

type Warning struct {
	Meta
	Title   string
	Message string
}

type Delimiter struct {
	Meta
}

// Unknown preserves a block whose type tag is not recognized. The payload
// is kept opaquely for diagnostic display.
type Unknown struct {
	Meta
	RawType string
	Raw     json.RawMessage
}

// Broken records a block whose payload failed to decode. The renderer maps
// it to a visible diagnostic instead of aborting the document.
type Broken struct {
	Meta
	RawType string
	Err     error
}

type wireDocument struct {
	Time    json.Number `json:"time"`
	Version string      `json:"version"`
	Blocks  []wireBlock `json:"blocks"`
}

type wireBlock struct {
	ID    string          `json:"id"`
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Tunes struct {
		Highlight struct {
			Highlighted bool `json:"highlighted"`
		} `json:"highlight"`
	} `json:"tunes"`
}

// DecodeAny decodes a document that arrives either as a JSON object or as
// a JSON-encoded string containing one. The CMS delivers both shapes.
func DecodeAny(raw json.RawMessage) (*Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.New("empty document")
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("unquote document: %w", err)
		}
		return Parse([]byte(inner))
	}
	return Parse(trimmed)
}

// Parse decodes a document from its JSON object form.
func Parse(data []byte) (*Document, error) {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &Document{Version: wire.Version}
	if ts, err := wire.Time.Int64(); err == nil {
		doc.Time = ts
	} else if f, ferr := wire.Time.Float64(); ferr == nil {
		doc.Time = int64(f)
	}

	doc.Blocks = make([]Block, 0, len(wire.Blocks))
	for _, wb := range wire.Blocks {
		doc.Blocks = append(doc.Blocks, decodeBlock(wb))
	}
	return doc, nil
}

func decodeBlock(wb wireBlock) Block {
	meta := Meta{ID: wb.ID, Highlighted: wb.Tunes.Highlight.Highlighted}

	data := wb.Data
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	broken := func(err error) Block {
		return Broken{Meta: meta, RawType: wb.Type, Err: err}
	}

	switch wb.Type {
	case "paragraph":
		var d struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		return Paragraph{Meta: meta, Text: d.Text}

	case "header":
		var d struct {
			Text  string  `json:"text"`
			Level float64 `json:"level"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		return Header{Meta: meta, Text: d.Text, Level: int(d.Level)}

	case "list":
		var d struct {
			Style string            `json:"style"`
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		style := ListUnordered
		if d.Style == string(ListOrdered) {
			style = ListOrdered
		}
		items := make([]string, 0, len(d.Items))
		for _, raw := range d.Items {
			items = append(items, decodeListItem(raw))
		}
		return List{Meta: meta, Style: style, Items: items}

	case "quote":
		var d struct {
			Text    string `json:"text"`
			Caption string `json:"caption"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		return Quote{Meta: meta, Text: d.Text, Caption: d.Caption}

	case "image":
		var d struct {
			URL  string `json:"url"`
			Src  string `json:"src"`
			File struct {
				URL string `json:"url"`
			} `json:"file"`
			Caption string `json:"caption"`
			Alt     string `json:"alt"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		url := firstNonEmpty(d.URL, d.File.URL, d.Src)
		caption := firstNonEmpty(d.Caption, d.Alt)
		return Image{Meta: meta, URL: url, Caption: caption}

	case "video":
		var d struct {
			Embed  string `json:"embed"`
			URL    string `json:"url"`
			Source string `json:"source"`
			File   struct {
				URL string `json:"url"`
			} `json:"file"`
			Caption string `json:"caption"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		return Video{
			Meta:      meta,
			EmbedURL:  d.Embed,
			SourceURL: firstNonEmpty(d.URL, d.Source, d.File.URL),
			Caption:   d.Caption,
		}

	case "embed":
		var d struct {
			Embed   string `json:"embed"`
			URL     string `json:"url"`
			Caption string `json:"caption"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		return Embed{Meta: meta, URL: firstNonEmpty(d.Embed, d.URL), Caption: d.Caption}

	case "table":
		var d struct {
			Content [][]string `json:"content"`
			Rows    [][]string `json:"rows"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		rows := d.Content
		if len(rows) == 0 {
			rows = d.Rows
		}
		return Table{Meta: meta, Rows: rows}

	case "code":
		var d struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		return Code{Meta: meta, Code: d.Code}

	case "warning":
		var d struct {
			Title   string `json:"title"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return broken(err)
		}
		return Warning{Meta: meta, Title: d.Title, Message: d.Message}

	case "delimiter":
		return Delimiter{Meta: meta}

	default:
		return Unknown{Meta: meta, RawType: wb.Type, Raw: wb.Data}
	}
}

// decodeListItem accepts the two item shapes the editor emits (a bare
// string or a record with content/text) and falls back to the raw JSON.
func decodeListItem(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var rec struct {
		Content string `json:"content"`
		Text    string `json:"text"`
	}
	if err := json.Unmarshal(raw, &rec); err == nil {
		if v := firstNonEmpty(rec.Content, rec.Text); v != "" {
			return v
		}
	}
	return string(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
