package bot

import (
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// occupancy is the per-tick map of projected train positions used for
// collision checks. Own trains are recorded as they are dispatched;
// own trains on cooldown and opponent trains are seeded up front, the
// latter with their last observed position advanced by their last
// observed speed. The town point never blocks: trains may stack there
// to unload.
type occupancy struct {
	state     *world.State
	townPoint int
	lines     map[int]map[int]bool
	points    map[int]bool
	own       map[int]projected
}

// projected is a planned (line, position) for one own train this tick
type projected struct {
	lineIdx  int
	position int
}

func newOccupancy(state *world.State, townPoint int) *occupancy {
	occ := &occupancy{
		state:     state,
		townPoint: townPoint,
		lines:     make(map[int]map[int]bool),
		points:    make(map[int]bool),
		own:       make(map[int]projected),
	}
	for _, train := range state.Trains {
		line, err := state.Line(train.LineIdx)
		if err != nil {
			continue
		}
		if train.PlayerIdx == state.PlayerIdx {
			// own trains on cooldown are frozen in place and never
			// dispatched, so their position has to block up front
			if train.Cooldown > 0 {
				occ.mark(line, train.Position)
			}
			continue
		}
		pos := train.Position + train.Speed
		if pos < 0 {
			pos = 0
		}
		if pos > line.Length {
			pos = line.Length
		}
		occ.mark(line, pos)
	}
	return occ
}

// recordOwn stores the planned position of a dispatched own train
func (o *occupancy) recordOwn(trainIdx int, line *world.Line, position int) {
	o.own[trainIdx] = projected{lineIdx: line.Idx, position: position}
	o.mark(line, position)
}

func (o *occupancy) mark(line *world.Line, position int) {
	if o.lines[line.Idx] == nil {
		o.lines[line.Idx] = make(map[int]bool)
	}
	o.lines[line.Idx][position] = true
	if point, ok := endpointAt(line, position); ok && point != o.townPoint {
		o.points[point] = true
	}
}

// conflicts reports whether a proposed (line, position) collides with an
// already projected train
func (o *occupancy) conflicts(line *world.Line, position int) bool {
	point, isEndpoint := endpointAt(line, position)
	if isEndpoint && point == o.townPoint {
		return false
	}
	if o.lines[line.Idx][position] {
		return true
	}
	return isEndpoint && o.points[point]
}

// atTown reports whether an own train's projected position is the town
// point
func (o *occupancy) atTown(trainIdx int) bool {
	proj, ok := o.own[trainIdx]
	if !ok {
		return false
	}
	line, err := o.state.Line(proj.lineIdx)
	if err != nil {
		return false
	}
	point, isEndpoint := endpointAt(line, proj.position)
	return isEndpoint && point == o.townPoint
}

func endpointAt(line *world.Line, position int) (int, bool) {
	switch position {
	case 0:
		return line.Points[0], true
	case line.Length:
		return line.Points[1], true
	}
	return 0, false
}
