package model

import "time"

// Dog holds the descriptive attributes of a dog that has ever appeared on
// the adoption page. The name is the page's identity for a dog.
type Dog struct {
	Name        string `gorm:"primaryKey;size:128"`
	Breed       string `gorm:"size:256"`
	Age         string `gorm:"size:64"`
	Sex         string `gorm:"size:1"`
	FirstSeenAt time.Time
	LastSeenAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
