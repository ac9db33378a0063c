package personnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterLookup(t *testing.T) {
	r := NewRoster(
		[]Person{{ID: "e1", Name: "Juan Pérez"}, {ID: "e1", Name: "Duplicado"}, {ID: "", Name: "Sin id"}},
		[]Person{{ID: " r1 ", Name: " María López "}, {ID: "r2", Name: ""}},
	)
	require.Len(t, r.DeliveredBy, 1)
	require.Len(t, r.ReceivedBy, 1)

	tests := []struct {
		name     string
		lookup   func(string) (Person, error)
		id       string
		expected Person
		err      error
	}{
		{"Delivery found", r.Delivery, "e1", Person{ID: "e1", Name: "Juan Pérez"}, nil},
		{"Reception found trimmed", r.Reception, "r1", Person{ID: "r1", Name: "María López"}, nil},
		{"Empty id is no selection", r.Delivery, "", Person{}, nil},
		{"Unknown delivery", r.Delivery, "r1", Person{}, ErrUnknownPerson},
		{"Dropped reception entry", r.Reception, "r2", Person{}, ErrUnknownPerson},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.lookup(tc.id)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}
