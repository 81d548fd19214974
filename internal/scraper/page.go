package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"doggo-watch-backend/internal/parse"
	"doggo-watch-backend/internal/track"
)

// PageReader abstracts the browser session the watcher reads through.
type PageReader interface {
	ReadPage(ctx context.Context) (string, error)
	Close() error
}

// extractListing selects the dog cards out of the serialized DOM and parses
// them. Unparsable cards are logged and skipped; a repeated name keeps its
// first occurrence so names stay unique within the listing.
func extractListing(html, selector string) (track.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var listing track.Listing
	seen := make(map[string]struct{})
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		raw := cardText(sel)
		if strings.TrimSpace(raw) == "" {
			return
		}
		dog, err := parse.ParseDog(raw)
		if err != nil {
			log.Printf("Skipping card: %v", err)
			return
		}
		if _, dup := seen[dog.Name]; dup {
			return
		}
		seen[dog.Name] = struct{}{}
		listing = append(listing, dog)
	})
	return listing, nil
}

// cardText flattens one card to newline-separated lines. Cards that wrap
// each line in a child element lose their line breaks under a plain Text(),
// so child texts are rejoined explicitly.
func cardText(sel *goquery.Selection) string {
	kids := sel.Children()
	if kids.Length() >= 3 {
		parts := make([]string, 0, kids.Length())
		kids.Each(func(_ int, c *goquery.Selection) {
			if t := strings.TrimSpace(c.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		if len(parts) >= 3 {
			return strings.Join(parts, "\n")
		}
	}
	return sel.Text()
}
