package internal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"doggo-watch-backend/config"
	"doggo-watch-backend/internal/model"
	"doggo-watch-backend/internal/scraper"
	"doggo-watch-backend/internal/store"
	"doggo-watch-backend/internal/track"
)

const (
	pageDay1 = `<div class="dogs col-md-12">
<span>Rex
German Shepherd
3 years - Male</span>
<span>Bella
Beagle
2 years - Female</span>
</div>`

	pageDay2 = `<div class="dogs col-md-12">
<span>Bella
Beagle
2 years - Female</span>
<span>Max
Labrador Mix
6 months - Male</span>
</div>`
)

// stepReader serves a sequence of page snapshots, one per read.
type stepReader struct {
	pages []string
	idx   int
}

func (r *stepReader) ReadPage(ctx context.Context) (string, error) {
	page := r.pages[r.idx]
	if r.idx < len(r.pages)-1 {
		r.idx++
	}
	return page, nil
}

func (r *stepReader) Close() error { return nil }

// TestListingLifecycle walks a dog through arrival and adoption and verifies
// the persisted state at each step, including the snapshot round-trip.
func TestListingLifecycle(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, testDB.AutoMigrate(
		&model.Dog{},
		&model.ListingEntry{},
		&model.ListingEvent{},
		&model.Snapshot{},
		&model.PushSubscription{},
	))

	cfg := &config.Config{}
	cfg.Watcher.Enabled = true
	cfg.WorkerPool.Size = 4
	cfg.ApplyDefaults()

	appStore := store.NewGormStore(testDB)
	svc := scraper.NewService(cfg, appStore, &stepReader{pages: []string{pageDay1, pageDay2}})

	ctx := context.Background()

	// --- Day 1: first observation, Rex and Bella arrive ---
	svc.ScrapeOnce(ctx)

	listing, capturedAt, err := appStore.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, capturedAt.IsZero())
	assert.ElementsMatch(t, []string{"Bella", "Rex"}, listingNames(listing))

	events, err := appStore.RecentEvents(ctx, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, model.EventArrived, e.Event)
	}

	// --- Day 2: Rex is adopted, Max arrives ---
	svc.ScrapeOnce(ctx)

	listing, capturedAt2, err := appStore.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, capturedAt2.After(capturedAt) || capturedAt2.Equal(capturedAt))
	assert.ElementsMatch(t, []string{"Bella", "Max"}, listingNames(listing))

	// Snapshot round-trip preserves attributes, not just names.
	byName := listing.ByName()
	assert.Equal(t, track.Dog{Name: "Max", Breed: "Labrador Mix", Age: "6 months", Sex: "M"}, byName["Max"])

	events, err = appStore.RecentEvents(ctx, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, events, 4)

	var adoption *model.ListingEvent
	for i := range events {
		if events[i].Event == model.EventAdopted {
			adoption = &events[i]
		}
	}
	require.NotNil(t, adoption, "an adoption event should have been recorded")
	assert.Equal(t, "Rex", adoption.DogName)
	assert.True(t, adoption.PeriodEnd.After(adoption.PeriodStart) || adoption.PeriodEnd.Equal(adoption.PeriodStart),
		"the adoption period spans the stint on the page")

	listed, err := appStore.CurrentListing(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	// --- Restart: a fresh service restores the snapshot as its baseline ---
	svc2 := scraper.NewService(cfg, appStore, &stepReader{pages: []string{pageDay2}})
	svc2.ScrapeOnce(ctx)

	events, err = appStore.RecentEvents(ctx, time.Time{}, 10)
	require.NoError(t, err)
	assert.Len(t, events, 4, "an unchanged listing after restart must not produce events")
}

func listingNames(l track.Listing) []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.Name
	}
	return out
}
