package graph

import (
	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// Adjacency is the symmetric neighbor view of the line set:
// point -> neighbor point -> connecting line idx
type Adjacency map[int]map[int]int

// Exclusions filters points and lines out of an adjacency build. A line
// is omitted when its idx is excluded or when it touches an excluded
// point.
type Exclusions struct {
	Points map[int]bool
	Lines  map[int]bool
}

// IsEmpty reports whether the filter excludes nothing
func (e Exclusions) IsEmpty() bool {
	return len(e.Points) == 0 && len(e.Lines) == 0
}

func (e Exclusions) blocksLine(line *world.Line) bool {
	if e.Lines[line.Idx] {
		return true
	}
	return e.Points[line.Points[0]] || e.Points[line.Points[1]]
}

// Variant selects one of the cached adjacency builds
type Variant int

const (
	// Full keeps every line
	Full Variant = iota
	// NoMarkets omits lines touching market points
	NoMarkets
	// NoStorages omits lines touching storage points
	NoStorages
)

// Engine builds and caches adjacency variants over a game state. The
// three standard variants are rebuilt only when the line set changes;
// requests with extra exclusions are built on demand.
type Engine struct {
	state   *world.State
	lineGen int

	full       Adjacency
	noMarkets  Adjacency
	noStorages Adjacency
}

// NewEngine creates a graph engine over the given state
func NewEngine(state *world.State) *Engine {
	return &Engine{state: state, lineGen: -1}
}

// Adjacency returns the requested variant with extra exclusions applied
// on top. Calls without extra exclusions hit the variant cache.
func (e *Engine) Adjacency(v Variant, extra Exclusions) Adjacency {
	e.refresh()
	if extra.IsEmpty() {
		return e.cached(v)
	}
	return e.build(e.variantExclusions(v, extra))
}

// AvoidingPostsFor returns the variant that excludes posts selling the
// opposite goods type, used on empty pickup legs
func AvoidingPostsFor(goods world.GoodsType) Variant {
	if goods == world.GoodsProduct {
		return NoStorages
	}
	return NoMarkets
}

func (e *Engine) cached(v Variant) Adjacency {
	switch v {
	case NoMarkets:
		return e.noMarkets
	case NoStorages:
		return e.noStorages
	}
	return e.full
}

func (e *Engine) refresh() {
	if e.lineGen == len(e.state.Lines) && e.full != nil {
		return
	}
	e.full = e.build(Exclusions{})
	e.noMarkets = e.build(Exclusions{Points: e.state.PointsWithPostType(world.PostMarket)})
	e.noStorages = e.build(Exclusions{Points: e.state.PointsWithPostType(world.PostStorage)})
	e.lineGen = len(e.state.Lines)
}

func (e *Engine) variantExclusions(v Variant, extra Exclusions) Exclusions {
	merged := Exclusions{
		Points: make(map[int]bool, len(extra.Points)),
		Lines:  make(map[int]bool, len(extra.Lines)),
	}
	switch v {
	case NoMarkets:
		for p := range e.state.PointsWithPostType(world.PostMarket) {
			merged.Points[p] = true
		}
	case NoStorages:
		for p := range e.state.PointsWithPostType(world.PostStorage) {
			merged.Points[p] = true
		}
	}
	for p := range extra.Points {
		merged.Points[p] = true
	}
	for l := range extra.Lines {
		merged.Lines[l] = true
	}
	return merged
}

func (e *Engine) build(excl Exclusions) Adjacency {
	adj := make(Adjacency)
	for _, line := range e.state.Lines {
		if excl.blocksLine(line) {
			continue
		}
		start, end := line.Points[0], line.Points[1]
		if adj[start] == nil {
			adj[start] = make(map[int]int)
		}
		if adj[end] == nil {
			adj[end] = make(map[int]int)
		}
		adj[start][end] = line.Idx
		adj[end][start] = line.Idx
	}
	return adj
}
