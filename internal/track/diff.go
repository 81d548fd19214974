// Package track holds the in-memory listing types and the diff between two
// scrapes. Diff is pure; reporting and persistence happen in the callers.
package track

// Dog is a single advertised dog. Name is the identity within a listing;
// the descriptive attributes are carried along but never compared.
type Dog struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
	Age   string `json:"age"`
	Sex   string `json:"sex"` // "F" or "M"
}

// Listing is the set of dogs advertised at one point in time, in page order.
// Names are unique within a Listing.
type Listing []Dog

// ByName returns the listing indexed by dog name.
func (l Listing) ByName() map[string]Dog {
	m := make(map[string]Dog, len(l))
	for _, d := range l {
		m[d.Name] = d
	}
	return m
}

// Names returns the set of dog names in the listing.
func (l Listing) Names() map[string]struct{} {
	s := make(map[string]struct{}, len(l))
	for _, d := range l {
		s[d.Name] = struct{}{}
	}
	return s
}

// Changes is the result of comparing two listings.
type Changes struct {
	// Added holds records from the current listing whose names were absent
	// from the previous one.
	Added []Dog
	// Removed holds records from the previous listing whose names are gone
	// from the current one.
	Removed []Dog
}

// Empty reports whether nothing was added or removed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares two listings by dog name. Dogs present in both are ignored.
// No ordering is guaranteed on the returned slices beyond the input order.
func Diff(previous, current Listing) Changes {
	prevNames := previous.Names()
	currNames := current.Names()

	var changes Changes
	for _, d := range current {
		if _, ok := prevNames[d.Name]; !ok {
			changes.Added = append(changes.Added, d)
		}
	}
	for _, d := range previous {
		if _, ok := currNames[d.Name]; !ok {
			changes.Removed = append(changes.Removed, d)
		}
	}
	return changes
}
