// Package parse turns the raw text of one listing card into a structured
// dog record. A card is the text content of one span on the adoption page:
//
//	Rex
//	German Shepherd
//	3 years - Male
//
// The third line may carry an age range ("1 - 2 years - Male"); anything
// with more segments than that means the page layout changed.
package parse

import (
	"fmt"
	"strings"

	"doggo-watch-backend/internal/track"
)

// ParseDog parses one card's text into a Dog record.
func ParseDog(raw string) (track.Dog, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) < 3 {
		return track.Dog{}, fmt.Errorf("card has %d line(s), want at least 3: %q", len(lines), raw)
	}

	name := strings.TrimSpace(lines[0])
	if name == "" {
		return track.Dog{}, fmt.Errorf("card has empty name: %q", raw)
	}
	breed := strings.TrimSpace(lines[1])

	age, rawSex, err := splitAgeSex(lines[2])
	if err != nil {
		return track.Dog{}, fmt.Errorf("card for %q: %w", name, err)
	}

	sex, err := normalizeSex(rawSex)
	if err != nil {
		return track.Dog{}, fmt.Errorf("cannot parse %s's sex: %w", name, err)
	}

	return track.Dog{Name: name, Breed: breed, Age: age, Sex: sex}, nil
}

// splitAgeSex splits the "age - sex" line. Two segments are the common case;
// three means the age itself contains a dash ("1 - 2 years") and is rejoined.
func splitAgeSex(line string) (age, sex string, err error) {
	parts := strings.Split(line, "-")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 2:
		return parts[0], parts[1], nil
	case 3:
		return parts[0] + "-" + parts[1], parts[2], nil
	default:
		return "", "", fmt.Errorf("age/sex line has %d segment(s), format changed? %q", len(parts), line)
	}
}

// normalizeSex maps the page's wording to "F"/"M". Female is checked first:
// "Female" contains "Male" as a substring.
func normalizeSex(raw string) (string, error) {
	switch {
	case strings.Contains(raw, "Female"):
		return "F", nil
	case strings.Contains(raw, "Male"):
		return "M", nil
	default:
		return "", fmt.Errorf("unrecognized sex %q", raw)
	}
}
