package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileTiers(t *testing.T) {
	cases := []struct {
		name    string
		cap     int
		percent float64
		earned  int
		want    int
		penalty bool
	}{
		{"negative percent is a penalty", 100, -5, 0, 2, true},
		{"just below first boundary", 100, 9.999, 0, 3, false},
		{"boundary shifts tier at exactly 10", 100, 10, 0, 6, false},
		{"third tier", 100, 20, 0, 13, false},
		{"fourth tier", 100, 30, 0, 25, false},
		{"fifth tier", 100, 40, 0, 50, false},
		{"top of fifth tier", 100, 49.99, 0, 50, false},
		{"cap-out awards the remainder", 100, 75, 60, 40, false},
		{"cap-out at exactly 50", 100, 50, 60, 40, false},
		{"above 100 percent still caps out", 100, 150, 0, 100, false},
		{"already capped awards nothing", 100, 55, 100, 0, false},
		{"weekly cap first tier", 500, 5, 0, 16, false},
		{"weekly cap penalty", 500, -1, 0, 8, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Reconcile(tc.cap, tc.percent, tc.earned)
			assert.Equal(t, tc.want, out.PointDelta)
			assert.Equal(t, tc.penalty, out.Penalty)
		})
	}
}

func TestReconcileIsPureInEarnedBelowCapOut(t *testing.T) {
	// Below the cap-out tier the already-earned total must not influence
	// the award.
	for _, earned := range []int{0, 10, 50, 99} {
		out := Reconcile(100, 25, earned)
		assert.Equal(t, 13, out.PointDelta)
		assert.False(t, out.Penalty)
	}
}
