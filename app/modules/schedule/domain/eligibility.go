package scheduledomain

import sharedtypes "github.com/Black-And-White-Club/moto-pickem/app/shared/types"

// EligibleRiderClasses returns the rider classes that may be picked for
// class at a round with the given split mode.
func EligibleRiderClasses(class sharedtypes.PickClass, split sharedtypes.SplitMode) []sharedtypes.RiderClass {
	if class == sharedtypes.PickClass450 {
		return []sharedtypes.RiderClass{sharedtypes.RiderClass450}
	}
	switch split {
	case sharedtypes.SplitEast:
		return []sharedtypes.RiderClass{sharedtypes.RiderClass250E}
	case sharedtypes.SplitWest:
		return []sharedtypes.RiderClass{sharedtypes.RiderClass250W}
	default:
		return []sharedtypes.RiderClass{sharedtypes.RiderClass250E, sharedtypes.RiderClass250W}
	}
}
