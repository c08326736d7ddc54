// Package sharedtypes defines identifiers and enumerations shared by every
// module.
package sharedtypes

import (
	"fmt"
	"strconv"
)

// UserID identifies a registered player.
type UserID int64

func (u UserID) String() string { return strconv.FormatInt(int64(u), 10) }

// RoundNumber is the 1-based position of a round in the season.
type RoundNumber int

func (n RoundNumber) String() string { return strconv.Itoa(int(n)) }

// PickClass is the class a user picks a rider for.
type PickClass string

const (
	PickClass450 PickClass = "450"
	PickClass250 PickClass = "250"
)

// PickClasses lists every pick class in display order.
var PickClasses = []PickClass{PickClass450, PickClass250}

func (c PickClass) Valid() bool {
	return c == PickClass450 || c == PickClass250
}

// RiderClass is the class a rider competes in. The 250 field is split into
// East and West regions.
type RiderClass string

const (
	RiderClass450  RiderClass = "450"
	RiderClass250E RiderClass = "250E"
	RiderClass250W RiderClass = "250W"
)

func (c RiderClass) Valid() bool {
	switch c {
	case RiderClass450, RiderClass250E, RiderClass250W:
		return true
	}
	return false
}

// PickClass maps a rider class onto the pick class it is eligible for.
func (c RiderClass) PickClass() PickClass {
	if c == RiderClass450 {
		return PickClass450
	}
	return PickClass250
}

// RaceType is the discipline of a round.
type RaceType string

const (
	RaceTypeSX  RaceType = "SX"
	RaceTypeMX  RaceType = "MX"
	RaceTypeSMX RaceType = "SMX"
)

func (t RaceType) Valid() bool {
	switch t {
	case RaceTypeSX, RaceTypeMX, RaceTypeSMX:
		return true
	}
	return false
}

// SplitMode decides which 250 region races at a round.
type SplitMode string

const (
	SplitEast     SplitMode = "east"
	SplitWest     SplitMode = "west"
	SplitCombined SplitMode = "combined"
)

func (m SplitMode) Valid() bool {
	switch m {
	case SplitEast, SplitWest, SplitCombined:
		return true
	}
	return false
}

// ViewType selects a leaderboard aggregation.
type ViewType string

const (
	ViewOverall ViewType = "overall"
	ViewSX      ViewType = ViewType(RaceTypeSX)
	ViewMX      ViewType = ViewType(RaceTypeMX)
	ViewSMX     ViewType = ViewType(RaceTypeSMX)
)

// ViewTypes lists every leaderboard view.
var ViewTypes = []ViewType{ViewOverall, ViewSX, ViewMX, ViewSMX}

// ParseViewType accepts "overall" or a race type, case-sensitive.
func ParseViewType(s string) (ViewType, error) {
	for _, v := range ViewTypes {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown leaderboard view %q", s)
}
