package display

import (
	"fmt"
	"io"
	"strings"

	"lps/internal/scraper"

	"github.com/fatih/color"
)

// Terminal prints listings as they arrive.
type Terminal struct {
	w     io.Writer
	count int

	title *color.Color
	price *color.Color
	link  *color.Color
	muted *color.Color
	fail  *color.Color
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		w:     w,
		title: color.New(color.FgCyan, color.Bold),
		price: color.New(color.FgYellow),
		link:  color.New(color.FgGreen),
		muted: color.New(color.FgHiBlack),
		fail:  color.New(color.FgRed, color.Bold),
	}
}

func (t *Terminal) Reset() {
	if t.count > 0 {
		fmt.Fprintln(t.w, strings.Repeat("-", 40))
	}
	t.count = 0
}

func (t *Terminal) Render(l scraper.Listing) {
	t.count++
	fmt.Fprintf(t.w, "%d. %s\n", t.count, t.title.Sprint(l.Title))
	fmt.Fprintf(t.w, "   %s  %s\n", t.price.Sprint(l.Price), t.muted.Sprintf("From: %s", l.SourceDomain()))
	if l.HasImage() {
		fmt.Fprintf(t.w, "   %s\n", t.muted.Sprint(l.Image))
	} else {
		fmt.Fprintf(t.w, "   %s\n", t.muted.Sprint("[no image]"))
	}
	fmt.Fprintf(t.w, "   %s\n", t.link.Sprint(l.Link))
}

func (t *Terminal) Failed(searchID string, err error) {
	fmt.Fprintf(t.w, "%s %v\n", t.fail.Sprint("search failed:"), err)
}

func (t *Terminal) Complete(searchID string, count int) {
	fmt.Fprintln(t.w, t.muted.Sprintf("%d listings", count))
}
