package sync

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrolhead/fuelbridge/internal/record"
)

// rec builds a canonical record with distinct readings derived from the date.
func rec(date, odometer string) record.Canonical {
	return record.Canonical{
		Cost:     "62.70",
		Date:     date,
		FullTank: true,
		Odometer: odometer,
		Volume:   "38.00",
	}
}

func TestReconcile(t *testing.T) {
	t.Parallel()

	a := rec("2024-01-01", "10000")
	b := rec("2024-01-10", "10500")
	c := rec("2024-01-20", "11000")

	tests := map[string]struct {
		destination []record.Canonical
		source      []record.Canonical
		want        []record.Canonical
	}{
		"empty source": {
			source:      nil,
			destination: []record.Canonical{a},
			want:        nil,
		},
		"empty destination": {
			source:      []record.Canonical{a, b},
			destination: nil,
			want:        []record.Canonical{a, b},
		},
		"all matched": {
			source:      []record.Canonical{a, b},
			destination: []record.Canonical{b, a},
			want:        nil,
		},
		"partial": {
			source:      []record.Canonical{a, b, c},
			destination: []record.Canonical{b},
			want:        []record.Canonical{a, c},
		},
		"duplicates match one-for-one": {
			// Two identical real fill-ups in the destination satisfy only
			// two of three identical source records.
			source:      []record.Canonical{a, a, a},
			destination: []record.Canonical{a, a},
			want:        []record.Canonical{a},
		},
		"destination record never satisfies two source records": {
			source:      []record.Canonical{a, a},
			destination: []record.Canonical{a},
			want:        []record.Canonical{a},
		},
		"surplus destination records are ignored": {
			source:      []record.Canonical{a},
			destination: []record.Canonical{a, b, c},
			want:        nil,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := Reconcile(tc.source, tc.destination)

			require.Equal(t, tc.want, got)
		})
	}
}

func TestReconcileOrderPreservation(t *testing.T) {
	t.Parallel()

	a := rec("2024-01-01", "10000")
	b := rec("2024-01-10", "10500")
	c := rec("2024-01-20", "11000")
	d := rec("2024-02-01", "11500")

	got := Reconcile([]record.Canonical{d, a, c, b}, []record.Canonical{c})

	// Unmatched records keep their relative source order.
	require.Equal(t, []record.Canonical{d, a, b}, got)
}

func TestReconcileIdempotence(t *testing.T) {
	t.Parallel()

	a := rec("2024-01-01", "10000")
	b := rec("2024-01-10", "10500")
	c := rec("2024-01-20", "11000")

	source := []record.Canonical{a, b, c, c}
	destination := []record.Canonical{a}

	missing := Reconcile(source, destination)
	require.Len(t, missing, 3)

	// Appending the first run's output to the destination makes the second
	// run a no-op.
	destination = append(destination, missing...)
	require.Empty(t, Reconcile(source, destination))
}

func TestReconcilePure(t *testing.T) {
	t.Parallel()

	a := rec("2024-01-01", "10000")
	b := rec("2024-01-10", "10500")

	source := []record.Canonical{a, b}
	destination := []record.Canonical{a}

	first := Reconcile(source, destination)
	second := Reconcile(source, destination)

	require.Equal(t, first, second)
	require.Equal(t, []record.Canonical{a, b}, source)
	require.Equal(t, []record.Canonical{a}, destination)
}
