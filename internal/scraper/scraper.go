package scraper

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"doggo-watch-backend/config"
	"doggo-watch-backend/internal/notification"
	"doggo-watch-backend/internal/report"
	"doggo-watch-backend/internal/store"
	"doggo-watch-backend/internal/track"
)

// Service orchestrates the watch loop: read the page, diff against the
// retained listing, report, persist, notify.
type Service struct {
	cfg        *config.Config
	store      store.Store
	reader     PageReader
	printer    *report.Printer
	workerPool *notification.WorkerPool

	// prev is the retained listing the next scrape is diffed against.
	prev     track.Listing
	havePrev bool
}

// NewService creates and initializes a new watcher service.
func NewService(cfg *config.Config, st store.Store, reader PageReader) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	return &Service{
		cfg:        cfg,
		store:      st,
		reader:     reader,
		printer:    report.NewPrinter(os.Stdout, report.ParseMode(cfg.Watcher.PrintMode)),
		workerPool: notification.NewWorkerPool(cfg.WorkerPool.Size, st.DB(), &webpushOptions),
	}
}

// Run starts the watch loop and blocks until ctx is cancelled. Each cycle is
// persisted, so shutdown needs no separate save step.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Watcher.Enabled {
		log.Println("Watcher is disabled. Not starting.")
		return
	}
	log.Println("Starting watcher service...")

	s.workerPool.Start(ctx)
	s.ScrapeOnce(ctx)

	timer := time.NewTimer(s.cfg.Watcher.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Watcher service shutting down.")
			return
		case <-timer.C:
			s.ScrapeOnce(ctx)
			timer.Reset(s.cfg.Watcher.Interval)
		}
	}
}

// restoreSnapshot loads the listing persisted by the previous run, if any,
// and reports it so the first scrape is diffed against it.
func (s *Service) restoreSnapshot(ctx context.Context) {
	listing, capturedAt, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		log.Printf("Could not load cached snapshot: %v. Starting fresh.", err)
		return
	}
	if capturedAt.IsZero() {
		log.Println("No cached snapshot found.")
		return
	}
	s.printer.CacheFound(capturedAt, listing)
	s.prev = listing
	s.havePrev = true
}

// ScrapeOnce performs a single cycle: read, extract, diff, report, persist,
// dispatch notifications. Failures leave the retained listing untouched.
func (s *Service) ScrapeOnce(ctx context.Context) {
	if s.cfg.Watcher.Verbose {
		log.Println("Executing scrape cycle...")
	}
	now := time.Now().UTC()

	// The first cycle after a restart diffs against the persisted snapshot.
	if !s.havePrev {
		s.restoreSnapshot(ctx)
	}

	html, err := s.reader.ReadPage(ctx)
	if err != nil {
		log.Printf("Error reading page: %v. Keeping previous listing.", err)
		return
	}

	listing, err := extractListing(html, s.cfg.Watcher.CardSelector)
	if err != nil {
		log.Printf("Error extracting listing: %v. Keeping previous listing.", err)
		return
	}

	// An empty result after a non-empty listing is far more likely a page
	// structure change than a mass adoption. Abort rather than clear state.
	if len(listing) == 0 && len(s.prev) > 0 {
		log.Println("Scrape yielded no dogs while previous listing was non-empty. Keeping previous listing.")
		return
	}

	if !s.havePrev {
		s.firstObservation(ctx, now, listing)
		return
	}

	changes := track.Diff(s.prev, listing)
	if s.cfg.Watcher.Verbose {
		log.Printf("Comparison found %d added, %d removed.", len(changes.Added), len(changes.Removed))
	}

	if s.printer.Changes(changes, now) {
		s.printer.AvailableCount(len(listing))
	}

	if err := s.store.RecordScrape(ctx, now, listing, changes); err != nil {
		log.Printf("Error persisting scrape: %v", err)
	}

	for _, d := range changes.Added {
		s.workerPool.Dispatch(d.Name)
	}

	s.prev = listing
}

// firstObservation handles the very first scrape of a fresh database: the
// whole listing is reported and recorded as arrivals, without notifications.
func (s *Service) firstObservation(ctx context.Context, now time.Time, listing track.Listing) {
	s.printer.LoopStarted(now, listing)

	changes := track.Diff(nil, listing)
	if err := s.store.RecordScrape(ctx, now, listing, changes); err != nil {
		log.Printf("Error persisting first scrape: %v", err)
	}

	s.prev = listing
	s.havePrev = true
}
