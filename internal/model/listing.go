package model

import "time"

// Event types recorded in the listing history.
const (
	EventArrived = "arrived"
	EventAdopted = "adopted"
)

// ListingEntry represents a dog currently on the page (hot table). The set
// of entries plus the snapshot row is the persisted snapshot.
type ListingEntry struct {
	DogName    string    `gorm:"primaryKey;size:128"`
	ObservedAt time.Time `gorm:"not null"` // start of the current stint
	LastSeenAt time.Time `gorm:"not null"`
}

// ListingEvent represents an arrival or departure (cold table). For an
// adoption, PeriodStart..PeriodEnd spans the dog's stint on the page.
type ListingEvent struct {
	ID          int64     `gorm:"autoIncrement;primaryKey"`
	DogName     string    `gorm:"not null;index;size:128"`
	Event       string    `gorm:"not null;size:16"`
	ObservedAt  time.Time `gorm:"not null;index"`
	PeriodStart time.Time `gorm:"not null"`
	PeriodEnd   time.Time `gorm:"not null"`
}

// Snapshot is a singleton row carrying the capture timestamp of the
// persisted listing.
type Snapshot struct {
	ID         int64     `gorm:"primaryKey"`
	CapturedAt time.Time `gorm:"not null"`
	DogCount   int       `gorm:"not null"`
}
