package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllOrdering(t *testing.T) {
	all := All()
	assert.Len(t, all, 5)

	// Daily goals come first, then weekly.
	sawWeekly := false
	for _, e := range all {
		if e.Cadence == CadenceWeekly {
			sawWeekly = true
		}
		if sawWeekly {
			assert.Equal(t, CadenceWeekly, e.Cadence)
		}
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("Download instead of streaming (Weekly)")
	assert.True(t, ok)
	assert.Equal(t, 500, e.PointCap)
	assert.Equal(t, CadenceWeekly, e.Cadence)

	_, ok = Lookup("Plant a tree (Monthly)")
	assert.False(t, ok)
}

func TestResolvePointCap(t *testing.T) {
	assert.Equal(t, 100, ResolvePointCap("Clean out inbox (Daily)"))
	assert.Equal(t, 500, ResolvePointCap("Reduce screen time by 5 hours (Weekly)"))
	// Unknown descriptions resolve to zero rather than failing.
	assert.Equal(t, 0, ResolvePointCap("Keep idle time below 45 minutes"))
}

func TestRandomFactsDistinct(t *testing.T) {
	facts := RandomFacts(2)
	assert.Len(t, facts, 2)
	assert.NotEqual(t, facts[0], facts[1])
}

func TestRandomTipsDistinct(t *testing.T) {
	tips := RandomTips(3)
	assert.Len(t, tips, 3)
	assert.NotEqual(t, tips[0], tips[1])
	assert.NotEqual(t, tips[1], tips[2])
	assert.NotEqual(t, tips[0], tips[2])
}

func TestRandomFactsClampedToCatalogSize(t *testing.T) {
	facts := RandomFacts(50)
	assert.Len(t, facts, 10)
}
