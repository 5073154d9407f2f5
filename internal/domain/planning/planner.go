package planning

import (
	"github.com/andrescamacho/railempire-go/internal/domain/graph"
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// Planner chooses a goods type and a route for each own train and keeps
// the per-train reservations. It is invoked synchronously by the
// executor, so no locking is needed.
type Planner struct {
	state        *world.State
	engine       *graph.Engine
	reservations map[int]*Reservation
}

// candidate is one scored target for a goods type
type candidate struct {
	goods    world.GoodsType
	target   int
	route    []int
	trip     int
	expected int
	profit   float64
}

// NewPlanner creates a planner over the given state and graph engine
func NewPlanner(state *world.State, engine *graph.Engine) *Planner {
	return &Planner{
		state:        state,
		engine:       engine,
		reservations: make(map[int]*Reservation),
	}
}

// Reservation returns the current reservation for a train, or nil
func (p *Planner) Reservation(trainIdx int) *Reservation {
	return p.reservations[trainIdx]
}

// Clear drops the reservation of a train that finished its trip at town
func (p *Planner) Clear(trainIdx int) {
	delete(p.reservations, trainIdx)
}

// TickDown decrements the remaining trip length of a moving train's
// reservation
func (p *Planner) TickDown(trainIdx int) {
	if res := p.reservations[trainIdx]; res != nil && res.TripRemaining > 0 {
		res.TripRemaining--
	}
}

// Plan computes a fresh reservation for the train. Extra exclusions come
// from collision-avoidance re-plans. Returns nil when no target is
// reachable; the train then stays stopped this tick and is retried on
// the next one.
func (p *Planner) Plan(train *world.Train, extra graph.Exclusions) *Reservation {
	town := p.state.OwnTown()
	if town == nil {
		return nil
	}
	line, err := p.state.Line(train.LineIdx)
	if err != nil {
		return nil
	}
	current := train.NearestEndpoint(line)

	if train.IsFull() {
		res := p.planReturn(train, line, current, town.PointIdx, extra)
		p.store(train.Idx, res)
		return res
	}

	// A loaded train is locked to its goods type until it unloads at town
	var types []world.GoodsType
	if train.Goods > 0 {
		types = []world.GoodsType{train.GoodsType}
	} else {
		types = []world.GoodsType{world.GoodsProduct, world.GoodsArmor}
	}

	best := make(map[world.GoodsType]*candidate)
	for _, goods := range types {
		if c := p.bestCandidate(train, line, current, goods, town, extra); c != nil {
			best[goods] = c
		}
	}

	chosen := p.choose(train, best)
	if chosen == nil {
		p.store(train.Idx, nil)
		return nil
	}
	res := &Reservation{
		GoodsType:      chosen.goods,
		ExpectedAmount: chosen.expected,
		TripRemaining:  chosen.trip,
		TargetPoint:    chosen.target,
		Route:          normalizeRoute(train, line, chosen.route),
	}
	p.store(train.Idx, res)
	return res
}

// planReturn routes a fully loaded train home on the full adjacency
func (p *Planner) planReturn(train *world.Train, line *world.Line, current, townPoint int, extra graph.Exclusions) *Reservation {
	adj := p.engine.Adjacency(graph.Full, extra)
	paths := graph.ShortestPaths(adj, p.state.Lines, current)
	route := paths.To(townPoint)
	if route == nil {
		return nil
	}
	trip, _ := paths.DistanceTo(townPoint)
	return &Reservation{
		GoodsType:      train.GoodsType,
		ExpectedAmount: train.Goods,
		TripRemaining:  trip,
		TargetPoint:    townPoint,
		Route:          normalizeRoute(train, line, route),
	}
}

// bestCandidate scores every reachable post selling the goods type and
// returns the most profitable one
func (p *Planner) bestCandidate(train *world.Train, line *world.Line, current int, goods world.GoodsType, town *world.Post, extra graph.Exclusions) *candidate {
	// On an empty pickup leg avoid posts of the opposite goods type so a
	// train never rolls through the wrong pickup point
	variant := graph.Full
	if train.Goods == 0 {
		variant = graph.AvoidingPostsFor(goods)
	}
	out := graph.ShortestPaths(p.engine.Adjacency(variant, extra), p.state.Lines, current)
	ret := graph.ShortestPaths(p.engine.Adjacency(graph.Full, graph.Exclusions{}), p.state.Lines, town.PointIdx)

	var best *candidate
	for _, post := range p.state.PostsOfType(goods.PostFor()) {
		outTrip, ok := out.DistanceTo(post.PointIdx)
		if !ok {
			continue
		}
		retTrip, ok := ret.DistanceTo(post.PointIdx)
		if !ok {
			continue
		}
		trip := outTrip + retTrip

		stock, capacity, replenishment := post.Stock(goods)
		available := stock + replenishment*outTrip - p.expectedByOthers(train.Idx, goods, post.PointIdx, outTrip)
		if available > capacity {
			available = capacity
		}
		if available < 0 {
			available = 0
		}
		take := train.FreeSpace()
		if available < take {
			take = available
		}
		loaded := train.Goods + take

		c := &candidate{
			goods:    goods,
			target:   post.PointIdx,
			route:    out.To(post.PointIdx),
			trip:     trip,
			expected: take,
			profit:   profit(goods, loaded, trip, town.Town.Population),
		}
		if best == nil || c.profit > best.profit {
			best = c
		}
	}

	// Standing on a matching post: town becomes a terminal unload target
	if at, ok := train.AtPoint(line); ok {
		if post := p.state.Posts[at]; post != nil && post.Type == goods.PostFor() {
			if outTrip, ok2 := out.DistanceTo(town.PointIdx); ok2 {
				c := &candidate{
					goods:    goods,
					target:   town.PointIdx,
					route:    out.To(town.PointIdx),
					trip:     outTrip,
					expected: train.Goods,
					profit:   profit(world.GoodsProduct, train.Goods, outTrip, town.Town.Population),
				}
				// Ties go to unloading so a depleted post never traps the train
				if best == nil || c.profit >= best.profit {
					best = c
				}
			}
		}
	}
	return best
}

// profit scores a candidate: product hauls are net of the town's
// consumption over the round trip, armor hauls are scored by throughput
func profit(goods world.GoodsType, loaded, trip, population int) float64 {
	if goods == world.GoodsArmor {
		if trip == 0 {
			return float64(loaded)
		}
		return float64(loaded) / float64(trip)
	}
	return float64(loaded - trip*population)
}

// expectedByOthers sums goods already promised to other trains arriving
// at the post before this one would
func (p *Planner) expectedByOthers(trainIdx int, goods world.GoodsType, point, outTrip int) int {
	total := 0
	for idx, res := range p.reservations {
		if idx == trainIdx || res == nil {
			continue
		}
		if res.GoodsType == goods && res.TargetPoint == point && res.TripRemaining < outTrip {
			total += res.ExpectedAmount
		}
	}
	return total
}

// choose picks between the product and armor candidates. An empty train
// with both on offer is load-balanced by assignment counts: armor wins
// when product-assigned trains outnumber armor trains more than two to
// one.
func (p *Planner) choose(train *world.Train, best map[world.GoodsType]*candidate) *candidate {
	product, armor := best[world.GoodsProduct], best[world.GoodsArmor]
	switch {
	case product == nil:
		return armor
	case armor == nil:
		return product
	}
	productCount, armorCount := 0, 0
	for idx, res := range p.reservations {
		if idx == train.Idx || res == nil {
			continue
		}
		switch res.GoodsType {
		case world.GoodsProduct:
			productCount++
		case world.GoodsArmor:
			armorCount++
		}
	}
	if productCount > 2*armorCount {
		return armor
	}
	return product
}

func (p *Planner) store(trainIdx int, res *Reservation) {
	if res == nil {
		delete(p.reservations, trainIdx)
		return
	}
	p.reservations[trainIdx] = res
}

// normalizeRoute guarantees that both endpoints of the train's current
// line appear at the head of the route, so the executor can join either
// endpoint in one step from a mid-line position
func normalizeRoute(train *world.Train, line *world.Line, route []int) []int {
	if len(route) == 0 {
		return nil
	}
	other := line.OtherEnd(route[0])
	if len(route) >= 2 && route[1] == other {
		return route
	}
	return append([]int{other}, route...)
}

// Assignments returns how many trains are currently reserved per goods
// type; used for status reporting
func (p *Planner) Assignments() map[world.GoodsType]int {
	counts := make(map[world.GoodsType]int)
	for _, res := range p.reservations {
		if res != nil {
			counts[res.GoodsType]++
		}
	}
	return counts
}
