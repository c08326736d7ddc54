// Package pickdomain holds the pure pick rules: the repeat window and the
// auto-pick candidate pool.
package pickdomain

import sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"

// RepeatWindow is how many rounds on either side of a target round a rider
// may not be picked again in the same class.
const RepeatWindow = 2

// WindowRounds returns the neighbouring rounds that block a repeat, in
// ascending order. The target round itself is not part of the window.
func WindowRounds(target sharedtypes.RoundNumber) []sharedtypes.RoundNumber {
	rounds := make([]sharedtypes.RoundNumber, 0, 2*RepeatWindow)
	for n := target - RepeatWindow; n <= target+RepeatWindow; n++ {
		if n < 1 || n == target {
			continue
		}
		rounds = append(rounds, n)
	}
	return rounds
}

// PriorPick is a pick the user already holds in some round.
type PriorPick struct {
	Round   sharedtypes.RoundNumber
	Class   sharedtypes.PickClass
	RiderID int64
	Rider   string
}

// InWindow reports whether round a and b are within RepeatWindow of each
// other without being the same round.
func InWindow(a, b sharedtypes.RoundNumber) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d >= 1 && d <= RepeatWindow
}

// FindRepeat returns the closest prior pick that blocks riderID in class at
// target.
func FindRepeat(prior []PriorPick, target sharedtypes.RoundNumber, class sharedtypes.PickClass, riderID int64) (PriorPick, bool) {
	var (
		hit   PriorPick
		found bool
	)
	for _, p := range prior {
		if p.Class != class || p.RiderID != riderID || !InWindow(p.Round, target) {
			continue
		}
		if !found || distance(p.Round, target) < distance(hit.Round, target) ||
			(distance(p.Round, target) == distance(hit.Round, target) && p.Round < hit.Round) {
			hit, found = p, true
		}
	}
	return hit, found
}

// Excluded returns the rider IDs blocked in class at target.
func Excluded(prior []PriorPick, target sharedtypes.RoundNumber, class sharedtypes.PickClass) map[int64]bool {
	out := map[int64]bool{}
	for _, p := range prior {
		if p.Class == class && InWindow(p.Round, target) {
			out[p.RiderID] = true
		}
	}
	return out
}

func distance(a, b sharedtypes.RoundNumber) sharedtypes.RoundNumber {
	if a > b {
		return a - b
	}
	return b - a
}
