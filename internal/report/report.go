// Package report renders listings and change reports to the terminal,
// either plain or colored.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"doggo-watch-backend/internal/track"
)

// Mode selects the print style.
type Mode string

const (
	ModePlain Mode = "plain"
	ModeColor Mode = "color"
)

const stampLayout = "2006-01-02 15:04:05"

// ParseMode maps a config/flag value to a Mode, defaulting to plain.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, string(ModeColor)) {
		return ModeColor
	}
	return ModePlain
}

// Printer writes listing reports to a single destination.
type Printer struct {
	w    io.Writer
	mode Mode
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, mode Mode) *Printer {
	return &Printer{w: w, mode: mode}
}

func (p *Printer) paint(c text.Color, s string) string {
	if p.mode == ModeColor {
		return c.Sprint(s)
	}
	return s
}

// Listing renders the dogs as a table.
func (p *Printer) Listing(listing track.Listing) {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"name", "breed", "age", "sex"})
	for _, d := range listing {
		sex := d.Sex
		if p.mode == ModeColor {
			switch d.Sex {
			case "M":
				sex = text.FgBlue.Sprint(d.Sex)
			case "F":
				sex = text.FgMagenta.Sprint(d.Sex)
			}
		}
		tw.AppendRow(table.Row{d.Name, d.Breed, d.Age, sex})
	}
	tw.Render()
}

// CacheFound reports the snapshot restored from the previous run.
func (p *Printer) CacheFound(capturedAt time.Time, listing track.Listing) {
	fmt.Fprintln(p.w, p.paint(text.FgGreen,
		fmt.Sprintf("found cache from %s with %d available dogs", capturedAt.Format(stampLayout), len(listing))))
	p.Listing(listing)
}

// LoopStarted reports a fresh start with no cached snapshot.
func (p *Printer) LoopStarted(now time.Time, listing track.Listing) {
	fmt.Fprintln(p.w, p.paint(text.FgGreen,
		fmt.Sprintf("monitoring loop started: %s", now.Format(stampLayout))))
	fmt.Fprintln(p.w, p.paint(text.FgGreen,
		fmt.Sprintf("detected %d dogs available", len(listing))))
	fmt.Fprintln(p.w)
	p.Listing(listing)
}

// Changes prints the added/adopted report and returns whether anything
// changed.
func (p *Printer) Changes(changes track.Changes, now time.Time) bool {
	if len(changes.Added) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.paint(text.FgRed, strings.Repeat("*", 80)))
		fmt.Fprintln(p.w, p.paint(text.FgRed, now.Format(stampLayout)))
		fmt.Fprintln(p.w, p.paint(text.FgRed, fmt.Sprintf("%d new dog(s) added!!", len(changes.Added))))
		p.Listing(changes.Added)
	}
	if len(changes.Removed) > 0 {
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.paint(text.FgYellow, now.Format(stampLayout)))
		fmt.Fprintln(p.w, p.paint(text.FgYellow, fmt.Sprintf("%d dog(s) adopted!!", len(changes.Removed))))
		p.Listing(changes.Removed)
	}
	return !changes.Empty()
}

// AvailableCount prints the size of the current listing after a change.
func (p *Printer) AvailableCount(n int) {
	fmt.Fprintln(p.w, p.paint(text.FgGreen, fmt.Sprintf("Available dogs: %d", n)))
}
