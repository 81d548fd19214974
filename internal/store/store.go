package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"doggo-watch-backend/internal/model"
	"doggo-watch-backend/internal/track"
)

// Store defines the interface for all database operations.
type Store interface {
	// LoadSnapshot returns the persisted listing and its capture timestamp.
	// A missing snapshot yields an empty listing and a zero time, not an error.
	LoadSnapshot(ctx context.Context) (track.Listing, time.Time, error)
	// RecordScrape persists one scrape cycle: the full listing, the changes
	// computed against the previous one, and the capture timestamp.
	RecordScrape(ctx context.Context, now time.Time, listing track.Listing, changes track.Changes) error
	// CurrentListing returns the dogs currently on the page with their stint
	// start times.
	CurrentListing(ctx context.Context) ([]ListedDog, error)
	// RecentEvents returns arrival/adoption events observed at or after
	// since, newest first, capped at limit.
	RecentEvents(ctx context.Context, since time.Time, limit int) ([]model.ListingEvent, error)
	// DB exposes the underlying handle for the API and notification layers.
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// LoadSnapshot reconstructs the last persisted listing from the entry table
// plus the snapshot row holding the capture timestamp.
func (s *gormStore) LoadSnapshot(ctx context.Context) (track.Listing, time.Time, error) {
	var snap model.Snapshot
	err := s.db.WithContext(ctx).First(&snap, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var dogs []model.Dog
	if err := s.db.WithContext(ctx).
		Joins("JOIN listing_entries ON listing_entries.dog_name = dogs.name").
		Order("dogs.name").
		Find(&dogs).Error; err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to load listing entries: %w", err)
	}

	listing := make(track.Listing, len(dogs))
	for i, d := range dogs {
		listing[i] = toTrackDog(d)
	}
	return listing, snap.CapturedAt, nil
}

// RecordScrape updates the database transactionally: dog attributes are
// upserted, arrivals open a listing entry, departures archive their stint as
// an adoption event, and the snapshot row records the capture time.
func (s *gormStore) RecordScrape(ctx context.Context, now time.Time, listing track.Listing, changes track.Changes) error {
	// Stint starts are needed to archive departing dogs; fetch them up front.
	stintStarts, err := s.fetchStintStarts(ctx, changes.Removed)
	if err != nil {
		return fmt.Errorf("failed to fetch entries for departing dogs: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(listing) > 0 {
			dogs := make([]model.Dog, len(listing))
			names := make([]string, len(listing))
			for i, d := range listing {
				dogs[i] = toModelDog(d, now)
				names[i] = d.Name
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"breed", "age", "sex", "last_seen_at", "updated_at"}),
			}).Create(&dogs).Error; err != nil {
				return fmt.Errorf("batch upsert dogs failed: %w", err)
			}

			if err := tx.Model(&model.ListingEntry{}).
				Where("dog_name IN ?", names).
				Update("last_seen_at", now).Error; err != nil {
				return fmt.Errorf("failed to refresh listing entries: %w", err)
			}
		}

		for _, d := range changes.Added {
			entry := model.ListingEntry{DogName: d.Name, ObservedAt: now, LastSeenAt: now}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to create listing entry for %q: %w", d.Name, err)
			}
			event := model.ListingEvent{
				DogName:     d.Name,
				Event:       model.EventArrived,
				ObservedAt:  now,
				PeriodStart: now,
				PeriodEnd:   now,
			}
			if err := tx.Create(&event).Error; err != nil {
				return fmt.Errorf("failed to record arrival of %q: %w", d.Name, err)
			}
		}

		for _, d := range changes.Removed {
			start, ok := stintStarts[d.Name]
			if !ok {
				start = now
			}
			event := model.ListingEvent{
				DogName:     d.Name,
				Event:       model.EventAdopted,
				ObservedAt:  now,
				PeriodStart: start,
				PeriodEnd:   now,
			}
			if err := tx.Create(&event).Error; err != nil {
				return fmt.Errorf("failed to record adoption of %q: %w", d.Name, err)
			}
			if err := tx.Delete(&model.ListingEntry{}, "dog_name = ?", d.Name).Error; err != nil {
				return fmt.Errorf("failed to delete listing entry for %q: %w", d.Name, err)
			}
		}

		snap := model.Snapshot{ID: 1, CapturedAt: now, DogCount: len(listing)}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"captured_at", "dog_count"}),
		}).Create(&snap).Error; err != nil {
			return fmt.Errorf("failed to update snapshot row: %w", err)
		}
		return nil
	})
}

// CurrentListing joins the entry table with dog attributes.
func (s *gormStore) CurrentListing(ctx context.Context) ([]ListedDog, error) {
	var entries []model.ListingEntry
	if err := s.db.WithContext(ctx).Order("dog_name").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listing entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.DogName
	}
	var dogs []model.Dog
	if err := s.db.WithContext(ctx).Where("name IN ?", names).Find(&dogs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch dogs: %w", err)
	}
	dogMap := make(map[string]model.Dog, len(dogs))
	for _, d := range dogs {
		dogMap[d.Name] = d
	}

	listed := make([]ListedDog, 0, len(entries))
	for _, e := range entries {
		listed = append(listed, ListedDog{Dog: dogMap[e.DogName], ListedSince: e.ObservedAt})
	}
	return listed, nil
}

// RecentEvents returns history rows, newest first.
func (s *gormStore) RecentEvents(ctx context.Context, since time.Time, limit int) ([]model.ListingEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	q := s.db.WithContext(ctx).Order("observed_at DESC").Limit(limit)
	if !since.IsZero() {
		q = q.Where("observed_at >= ?", since)
	}
	var events []model.ListingEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

func (s *gormStore) fetchStintStarts(ctx context.Context, removed []track.Dog) (map[string]time.Time, error) {
	if len(removed) == 0 {
		return nil, nil
	}
	names := make([]string, len(removed))
	for i, d := range removed {
		names[i] = d.Name
	}
	var entries []model.ListingEntry
	if err := s.db.WithContext(ctx).Where("dog_name IN ?", names).Find(&entries).Error; err != nil {
		return nil, err
	}
	starts := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		starts[e.DogName] = e.ObservedAt
	}
	return starts, nil
}
