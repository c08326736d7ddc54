package scheduledomain

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTimezone is used when a venue matches no entry in the zone table.
const DefaultTimezone = "America/New_York"

type zoneEntry struct {
	match string
	zone  string
}

// stateZones maps full state or country names, matched anywhere in the
// upper-cased location, to an IANA zone.
var stateZones = []zoneEntry{
	{"CALIFORNIA", "America/Los_Angeles"},
	{"WASHINGTON", "America/Los_Angeles"},
	{"OREGON", "America/Los_Angeles"},
	{"NEVADA", "America/Los_Angeles"},
	{"ARIZONA", "America/Phoenix"},
	{"UTAH", "America/Denver"},
	{"COLORADO", "America/Denver"},
	{"NEW MEXICO", "America/Denver"},
	{"IDAHO", "America/Boise"},
	{"TEXAS", "America/Chicago"},
	{"MINNESOTA", "America/Chicago"},
	{"MISSOURI", "America/Chicago"},
	{"ILLINOIS", "America/Chicago"},
	{"WISCONSIN", "America/Chicago"},
	{"TENNESSEE", "America/Chicago"},
	{"ALABAMA", "America/Chicago"},
	{"OKLAHOMA", "America/Chicago"},
	{"KANSAS", "America/Chicago"},
	{"LOUISIANA", "America/Chicago"},
	{"FLORIDA", "America/New_York"},
	{"GEORGIA", "America/New_York"},
	{"OHIO", "America/New_York"},
	{"MICHIGAN", "America/New_York"},
	{"PENNSYLVANIA", "America/New_York"},
	{"NEW YORK", "America/New_York"},
	{"NEW JERSEY", "America/New_York"},
	{"MASSACHUSETTS", "America/New_York"},
	{"NORTH CAROLINA", "America/New_York"},
	{"SOUTH CAROLINA", "America/New_York"},
	{"VIRGINIA", "America/New_York"},
	{"MARYLAND", "America/New_York"},
	{"INDIANA", "America/Indiana/Indianapolis"},
	{"KENTUCKY", "America/New_York"},
	{"NEW HAMPSHIRE", "America/New_York"},
	{"CANADA", "America/Toronto"},
}

// abbrevZones maps a two-letter postal code, matched only as the trailing
// comma-separated segment ("Anaheim, CA"), to an IANA zone.
var abbrevZones = map[string]string{
	"CA": "America/Los_Angeles",
	"WA": "America/Los_Angeles",
	"OR": "America/Los_Angeles",
	"NV": "America/Los_Angeles",
	"AZ": "America/Phoenix",
	"UT": "America/Denver",
	"CO": "America/Denver",
	"NM": "America/Denver",
	"ID": "America/Boise",
	"TX": "America/Chicago",
	"MN": "America/Chicago",
	"MO": "America/Chicago",
	"IL": "America/Chicago",
	"WI": "America/Chicago",
	"TN": "America/Chicago",
	"AL": "America/Chicago",
	"OK": "America/Chicago",
	"KS": "America/Chicago",
	"LA": "America/Chicago",
	"FL": "America/New_York",
	"GA": "America/New_York",
	"OH": "America/New_York",
	"MI": "America/New_York",
	"PA": "America/New_York",
	"NY": "America/New_York",
	"NJ": "America/New_York",
	"MA": "America/New_York",
	"NC": "America/New_York",
	"SC": "America/New_York",
	"VA": "America/New_York",
	"MD": "America/New_York",
	"IN": "America/Indiana/Indianapolis",
	"KY": "America/New_York",
	"NH": "America/New_York",
	"DE": "America/New_York",
	"WV": "America/New_York",
	"CT": "America/New_York",
}

// DeadlineResolver derives pick deadlines from a venue string.
type DeadlineResolver struct {
	fallback *time.Location

	mu    sync.Mutex
	cache map[string]*time.Location
}

// NewDeadlineResolver builds a resolver whose unmatched venues use
// defaultZone. An empty defaultZone means DefaultTimezone.
func NewDeadlineResolver(defaultZone string) (*DeadlineResolver, error) {
	if defaultZone == "" {
		defaultZone = DefaultTimezone
	}
	loc, err := time.LoadLocation(defaultZone)
	if err != nil {
		return nil, fmt.Errorf("load default timezone %q: %w", defaultZone, err)
	}
	return &DeadlineResolver{fallback: loc, cache: map[string]*time.Location{defaultZone: loc}}, nil
}

// ZoneName returns the IANA zone for location, or "" when nothing matches.
func ZoneName(location string) string {
	upper := strings.ToUpper(strings.TrimSpace(location))
	if upper == "" {
		return ""
	}

	if i := strings.LastIndex(upper, ","); i >= 0 {
		tail := strings.TrimSpace(upper[i+1:])
		if zone, ok := abbrevZones[tail]; ok {
			return zone
		}
	}

	for _, e := range stateZones {
		if strings.Contains(upper, e.match) {
			return e.zone
		}
	}
	return ""
}

// Location resolves the venue to a loaded *time.Location, falling back to
// the resolver default.
func (r *DeadlineResolver) Location(location string) *time.Location {
	name := ZoneName(location)
	if name == "" {
		return r.fallback
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if loc, ok := r.cache[name]; ok {
		return loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return r.fallback
	}
	r.cache[name] = loc
	return loc
}

// Deadline is local midnight at the start of the race date, in UTC.
// Only the calendar date of raceDate is used.
func (r *DeadlineResolver) Deadline(raceDate time.Time, location string) time.Time {
	y, m, d := raceDate.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Location(location)).UTC()
}

// IsLocked reports whether now is at or after the deadline.
func (r *DeadlineResolver) IsLocked(raceDate time.Time, location string, now time.Time) bool {
	return !now.Before(r.Deadline(raceDate, location))
}
