package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndelchev/newsfront/internal/content"
	"github.com/ndelchev/newsfront/internal/render"
)

func parseDoc(t *testing.T, raw string) *content.Document {
	t.Helper()
	doc, err := content.Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func visible(units []render.Unit) []render.Unit {
	var out []render.Unit
	for _, u := range units {
		if u.Visible() {
			out = append(out, u)
		}
	}
	return out
}

func TestDocumentOneUnitPerBlock(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[
		{"id":"h","type":"header","data":{"text":"Title","level":2}},
		{"id":"p","type":"paragraph","data":{"text":""}},
		{"id":"w","type":"unknown-widget","data":{}}
	]}`)

	units := render.New(nil).Document(doc)
	require.Len(t, units, 3)

	require.Equal(t, render.UnitHeader, units[0].Kind)
	require.Equal(t, 2, units[0].Level)
	require.Equal(t, "Title", units[0].Text)

	require.Equal(t, render.UnitSkipped, units[1].Kind)

	require.Equal(t, render.UnitUnsupported, units[2].Kind)
	require.Equal(t, "unknown-widget", units[2].BlockType)
	require.Equal(t, "w", units[2].BlockID)

	require.Len(t, visible(units), 2)
}

func TestDocumentEmptyState(t *testing.T) {
	units := render.New(nil).Document(parseDoc(t, `{"blocks":[]}`))
	require.Len(t, units, 1)
	require.Equal(t, render.UnitEmpty, units[0].Kind)

	units = render.New(nil).Document(nil)
	require.Len(t, units, 1)
	require.Equal(t, render.UnitEmpty, units[0].Kind)
}

func TestHeaderLevelClamped(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[
		{"type":"header","data":{"text":"low","level":0}},
		{"type":"header","data":{"text":"high","level":9}},
		{"type":"header","data":{"text":"fine","level":3}}
	]}`)

	units := render.New(nil).Document(doc)
	require.Equal(t, 1, units[0].Level)
	require.Equal(t, 6, units[1].Level)
	require.Equal(t, 3, units[2].Level)
}

func TestImageWithoutURLSkipsWithoutAffectingSiblings(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[
		{"type":"paragraph","data":{"text":"before"}},
		{"id":"img","type":"image","data":{"caption":"orphan"}},
		{"type":"paragraph","data":{"text":"after"}}
	]}`)

	units := render.New(nil).Document(doc)
	require.Len(t, units, 3)
	require.Equal(t, render.UnitParagraph, units[0].Kind)
	require.Equal(t, render.UnitSkipped, units[1].Kind)
	require.Equal(t, render.UnitParagraph, units[2].Kind)
	require.Equal(t, "after", units[2].Text)
}

func TestVideoPrefersEmbedURL(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[
		{"type":"video","data":{"embed":"https://www.youtube.com/embed/a","url":"https://youtu.be/a"}},
		{"type":"video","data":{"url":"https://youtu.be/b"}},
		{"type":"video","data":{}}
	]}`)

	units := render.New(nil).Document(doc)
	require.Equal(t, render.UnitVideo, units[0].Kind)
	require.Equal(t, "https://www.youtube.com/embed/a", units[0].URL)
	require.Equal(t, render.UnitVideo, units[1].Kind)
	require.Equal(t, "https://youtu.be/b", units[1].URL)
	require.Equal(t, render.UnitSkipped, units[2].Kind)
}

func TestWarningRendersEvenWhenEmpty(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[{"type":"warning","data":{}}]}`)
	units := render.New(nil).Document(doc)
	require.Len(t, units, 1)
	require.Equal(t, render.UnitWarning, units[0].Kind)
	require.True(t, units[0].Visible())
}

func TestBrokenBlockBecomesDiagnostic(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[
		{"id":"bad","type":"paragraph","data":{"text":[1,2]}},
		{"type":"paragraph","data":{"text":"sibling survives"}}
	]}`)

	units := render.New(nil).Document(doc)
	require.Len(t, units, 2)
	require.Equal(t, render.UnitFailed, units[0].Kind)
	require.Equal(t, "paragraph", units[0].BlockType)
	require.Equal(t, "bad", units[0].BlockID)
	require.NotEmpty(t, units[0].Reason)
	require.Equal(t, render.UnitParagraph, units[1].Kind)
}

func TestHighlightTuneCarriedThrough(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[
		{"type":"paragraph","data":{"text":"plain"}},
		{"type":"paragraph","data":{"text":"loud"},"tunes":{"highlight":{"highlighted":true}}}
	]}`)

	units := render.New(nil).Document(doc)
	require.False(t, units[0].Highlighted)
	require.True(t, units[1].Highlighted)
}

func TestListAndTableAndQuote(t *testing.T) {
	doc := parseDoc(t, `{"blocks":[
		{"type":"list","data":{"style":"ordered","items":["one","two"]}},
		{"type":"list","data":{"style":"unordered","items":[]}},
		{"type":"table","data":{"content":[["a","b"]]}},
		{"type":"quote","data":{"text":"wise words","caption":"someone"}},
		{"type":"code","data":{"code":"x := 1\n"}}
	]}`)

	units := render.New(nil).Document(doc)
	require.Equal(t, render.UnitList, units[0].Kind)
	require.True(t, units[0].Ordered)
	require.Equal(t, []string{"one", "two"}, units[0].Items)

	require.Equal(t, render.UnitSkipped, units[1].Kind)

	require.Equal(t, render.UnitTable, units[2].Kind)
	require.Equal(t, [][]string{{"a", "b"}}, units[2].Rows)

	require.Equal(t, render.UnitQuote, units[3].Kind)
	require.Equal(t, "someone", units[3].Caption)

	require.Equal(t, render.UnitCode, units[4].Kind)
	require.Equal(t, "x := 1\n", units[4].Text)
}
