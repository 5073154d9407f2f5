package planning

import (
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// Reservation is the planner's intention record for one own train: what
// it set out to haul, how much of the target's stock it expects to take,
// how many positions remain on the round trip, and the point route of
// the current leg.
type Reservation struct {
	GoodsType      world.GoodsType
	ExpectedAmount int
	TripRemaining  int
	TargetPoint    int
	Route          []int
}

// TargetsTown reports whether the current leg ends at the given town point
func (r *Reservation) TargetsTown(townPoint int) bool {
	return len(r.Route) > 0 && r.Route[len(r.Route)-1] == townPoint
}

// LastPoint returns the terminal point of the route, or false for an
// empty route
func (r *Reservation) LastPoint() (int, bool) {
	if len(r.Route) == 0 {
		return 0, false
	}
	return r.Route[len(r.Route)-1], true
}
