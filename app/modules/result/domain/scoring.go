package resultdomain

import (
	"fmt"
	"sort"
)

// PointsTable maps a finishing position to championship points. Values[0]
// is the award for first place; positions past the end score zero.
type PointsTable struct {
	Version string
	Values  []int
}

// Points returns the award for a finishing position.
func (t PointsTable) Points(position int) int {
	if position < 1 || position > len(t.Values) {
		return 0
	}
	return t.Values[position-1]
}

// StandardTable: 25/22/20/18 for the podium and fourth, then 22-p down to
// twentieth place.
var StandardTable = PointsTable{
	Version: "standard",
	Values:  standardValues(),
}

// LegacyTable is the earlier curve: sixteen for fifth, one point per place
// after that, and a single point for twenty-first and twenty-second.
var LegacyTable = PointsTable{
	Version: "legacy",
	Values:  []int{25, 22, 20, 18, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 1, 1},
}

func standardValues() []int {
	values := []int{25, 22, 20, 18}
	for p := 5; p <= 20; p++ {
		values = append(values, 22-p)
	}
	return values
}

var tables = map[string]PointsTable{
	StandardTable.Version: StandardTable,
	LegacyTable.Version:   LegacyTable,
}

// TableByVersion looks up a points table. An empty version is "standard".
func TableByVersion(version string) (PointsTable, error) {
	if version == "" {
		return StandardTable, nil
	}
	t, ok := tables[version]
	if !ok {
		return PointsTable{}, fmt.Errorf("unknown points table %q", version)
	}
	return t, nil
}

// Versions lists the registered table versions in sorted order.
func Versions() []string {
	out := make([]string, 0, len(tables))
	for v := range tables {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
