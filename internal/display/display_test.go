package display

import (
	"bytes"
	"errors"
	"testing"

	"lps/internal/scraper"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

var cat = scraper.Listing{
	SearchID: "s1",
	Source:   "eBay",
	Title:    "LPS 123 Cat",
	Price:    "$12.00",
	Image:    scraper.ImageUnavailable,
	Link:     "https://www.ebay.com/itm/1",
}

func TestTerminalRender(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	term.Render(cat)
	withImage := cat
	withImage.Image = "https://i.ebayimg.com/1.jpg"
	term.Render(withImage)
	term.Complete("s1", 2)

	out := buf.String()
	assert.Contains(t, out, "1. LPS 123 Cat\n")
	assert.Contains(t, out, "   $12.00  From: Ebay.com\n")
	assert.Contains(t, out, "   [no image]\n")
	assert.Contains(t, out, "2. LPS 123 Cat\n")
	assert.Contains(t, out, "   https://i.ebayimg.com/1.jpg\n")
	assert.Contains(t, out, "2 listings\n")
}

func TestTerminalResetRestartsNumbering(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	term.Reset()
	assert.Empty(t, buf.String())

	term.Render(cat)
	term.Reset()
	term.Render(cat)
	assert.Contains(t, buf.String(), "----")
	assert.NotContains(t, buf.String(), "2. ")
}

func TestTerminalFailed(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf).Failed("s1", errors.New("firefox unavailable: firefox is not installed"))
	assert.Equal(t, "search failed: firefox unavailable: firefox is not installed\n", buf.String())
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Render(cat)
	c.Failed("s1", errors.New("boom"))
	c.Complete("s1", 1)

	require.Len(t, c.Listings(), 1)
	assert.Len(t, c.Errors(), 1)
	assert.True(t, c.Completed())

	text, err := c.Content("LPS 123").ToText()
	require.NoError(t, err)
	assert.Contains(t, text, "LPS 123 Cat")

	c.Reset()
	assert.Empty(t, c.Listings())
	assert.Empty(t, c.Errors())
	assert.False(t, c.Completed())
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	m := Multi{a, b}
	m.Render(cat)
	m.Complete("s1", 1)

	assert.Len(t, a.Listings(), 1)
	assert.Len(t, b.Listings(), 1)
	assert.True(t, b.Completed())

	m.Reset()
	assert.Empty(t, a.Listings())
}
