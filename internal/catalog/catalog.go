// Package catalog holds the static registry of sustainability goals a device
// can sign up for, plus the emissions facts and tips shown alongside them.
package catalog

type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

const (
	dailyPointCap  = 100
	weeklyPointCap = 500
)

type Entry struct {
	Description string  `json:"description"`
	PointCap    int     `json:"point_cap"`
	Cadence     Cadence `json:"cadence"`
}

// Daily goals first, then weekly. Presentation order matters to the goal
// selection form, so keep this slice ordered.
var entries = []Entry{
	{Description: "Recharge before device reaches 20% (Daily)", PointCap: dailyPointCap, Cadence: CadenceDaily},
	{Description: "Clean out inbox (Daily)", PointCap: dailyPointCap, Cadence: CadenceDaily},
	{Description: "Shut Down when not in use (Daily)", PointCap: dailyPointCap, Cadence: CadenceDaily},
	{Description: "Download instead of streaming (Weekly)", PointCap: weeklyPointCap, Cadence: CadenceWeekly},
	{Description: "Reduce screen time by 5 hours (Weekly)", PointCap: weeklyPointCap, Cadence: CadenceWeekly},
}

var byDescription = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Description] = e
	}
	return m
}()

// All returns the full ordered catalog.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func Lookup(description string) (Entry, bool) {
	e, ok := byDescription[description]
	return e, ok
}

// ResolvePointCap returns the point cap for a goal description, or 0 when the
// description is not in the catalog. Registration callers must not assume a
// nonzero cap.
func ResolvePointCap(description string) int {
	if e, ok := byDescription[description]; ok {
		return e.PointCap
	}
	return 0
}
