package store

import (
	"time"

	"doggo-watch-backend/internal/model"
	"doggo-watch-backend/internal/track"
)

// ListedDog is a dog from the current listing together with the time it was
// first observed in its current stint on the page.
type ListedDog struct {
	model.Dog
	ListedSince time.Time `json:"listedSince"`
}

func toModelDog(d track.Dog, now time.Time) model.Dog {
	return model.Dog{
		Name:        d.Name,
		Breed:       d.Breed,
		Age:         d.Age,
		Sex:         d.Sex,
		FirstSeenAt: now,
		LastSeenAt:  now,
	}
}

func toTrackDog(d model.Dog) track.Dog {
	return track.Dog{
		Name:  d.Name,
		Breed: d.Breed,
		Age:   d.Age,
		Sex:   d.Sex,
	}
}
