package domstub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wm3445/react/reconcile/htmlreconciler/domstub"
)

func TestNewElementRejectsInvalidTag(t *testing.T) {
	_, err := domstub.NewElement("not a tag")
	assert.Error(t, err)
}

func TestNewElementAcceptsValidTag(t *testing.T) {
	e, err := domstub.NewElement("div")
	require.NoError(t, err)
	assert.Equal(t, "div", e.Tag)
}

func TestSetAttrRejectsInvalidKey(t *testing.T) {
	e, err := domstub.NewElement("div")
	require.NoError(t, err)
	assert.Error(t, e.SetAttr("bad key", "v"))
}

func TestSetAttrAndRender(t *testing.T) {
	e, err := domstub.NewElement("div")
	require.NoError(t, err)
	require.NoError(t, e.SetAttr("class", "greeting"))

	out := e.Render(0)
	assert.Contains(t, out, `class="greeting"`)
	assert.Contains(t, out, "<div")
}

func TestRenderEscapesAttributesAndText(t *testing.T) {
	e, err := domstub.NewElement("div")
	require.NoError(t, err)
	require.NoError(t, e.SetAttr("title", `"quoted" & <tagged>`))
	e.AppendChild(domstub.NewText(`<script>alert(1)</script>`))

	out := e.Render(0)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&amp;")
}

func TestAppendChildAppendsAtEnd(t *testing.T) {
	e, err := domstub.NewElement("ul")
	require.NoError(t, err)
	first := domstub.NewText("first")
	second := domstub.NewText("second")

	e.AppendChild(first)
	e.AppendChild(second)

	require.Len(t, e.Children, 2)
	assert.Same(t, first, e.Children[0])
	assert.Same(t, second, e.Children[1])
}

func TestRemoveChildByIdentity(t *testing.T) {
	e, err := domstub.NewElement("ul")
	require.NoError(t, err)
	first := domstub.NewText("first")
	second := domstub.NewText("second")
	e.AppendChild(first)
	e.AppendChild(second)

	e.RemoveChild(first)

	require.Len(t, e.Children, 1)
	assert.Same(t, second, e.Children[0])
}

func TestSelfClosingWhenNoChildren(t *testing.T) {
	e, err := domstub.NewElement("br")
	require.NoError(t, err)
	assert.Contains(t, e.Render(0), "/>")
}

func TestSetContentOverwritesInPlace(t *testing.T) {
	text := domstub.NewText("before")
	text.SetContent("after")
	assert.Equal(t, "after", text.Content)
}
