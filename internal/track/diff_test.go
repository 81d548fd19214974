package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(dogs []Dog) []string {
	out := make([]string, len(dogs))
	for i, d := range dogs {
		out[i] = d.Name
	}
	return out
}

func TestDiff(t *testing.T) {
	rex := Dog{Name: "Rex", Breed: "German Shepherd", Age: "3 years", Sex: "M"}
	bella := Dog{Name: "Bella", Breed: "Beagle", Age: "2 years", Sex: "F"}
	max := Dog{Name: "Max", Breed: "Labrador Mix", Age: "6 months", Sex: "M"}

	testCases := []struct {
		name            string
		previous        Listing
		current         Listing
		expectedAdded   []string
		expectedRemoved []string
	}{
		{
			name:            "one added one removed",
			previous:        Listing{rex, bella},
			current:         Listing{bella, max},
			expectedAdded:   []string{"Max"},
			expectedRemoved: []string{"Rex"},
		},
		{
			name:     "identical listings yield no changes",
			previous: Listing{rex, bella},
			current:  Listing{rex, bella},
		},
		{
			name:          "empty previous means everything is new",
			previous:      Listing{},
			current:       Listing{rex, bella},
			expectedAdded: []string{"Rex", "Bella"},
		},
		{
			name:            "empty current means everything is adopted",
			previous:        Listing{rex, bella},
			current:         Listing{},
			expectedRemoved: []string{"Rex", "Bella"},
		},
		{
			name:     "both empty",
			previous: Listing{},
			current:  Listing{},
		},
		{
			name:     "attribute changes without a name change are ignored",
			previous: Listing{rex},
			current:  Listing{{Name: "Rex", Breed: "Shepherd Mix", Age: "4 years", Sex: "M"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			changes := Diff(tc.previous, tc.current)
			assert.ElementsMatch(t, tc.expectedAdded, names(changes.Added))
			assert.ElementsMatch(t, tc.expectedRemoved, names(changes.Removed))
			assert.Equal(t, len(tc.expectedAdded)+len(tc.expectedRemoved) == 0, changes.Empty())
		})
	}
}

// Added and Removed can never share a name: a name is either in the current
// listing or not.
func TestDiff_AddedRemovedDisjoint(t *testing.T) {
	previous := Listing{{Name: "Rex"}, {Name: "Bella"}, {Name: "Duke"}}
	current := Listing{{Name: "Bella"}, {Name: "Max"}, {Name: "Luna"}}

	changes := Diff(previous, current)

	added := make(map[string]struct{})
	for _, d := range changes.Added {
		added[d.Name] = struct{}{}
	}
	for _, d := range changes.Removed {
		_, overlap := added[d.Name]
		assert.Falsef(t, overlap, "%s appears in both added and removed", d.Name)
	}
}

func TestDiff_RecordsComeFromTheRightListing(t *testing.T) {
	previous := Listing{{Name: "Rex", Breed: "old breed entry"}}
	current := Listing{{Name: "Max", Breed: "new breed entry"}}

	changes := Diff(previous, current)

	assert.Len(t, changes.Added, 1)
	assert.Equal(t, "new breed entry", changes.Added[0].Breed, "added records carry current attributes")
	assert.Len(t, changes.Removed, 1)
	assert.Equal(t, "old breed entry", changes.Removed[0].Breed, "removed records carry previous attributes")
}

func TestListing_ByName(t *testing.T) {
	l := Listing{{Name: "Rex", Sex: "M"}, {Name: "Bella", Sex: "F"}}
	m := l.ByName()
	assert.Len(t, m, 2)
	assert.Equal(t, "F", m["Bella"].Sex)
}
