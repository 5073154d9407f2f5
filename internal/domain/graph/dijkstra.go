package graph

import (
	"sort"

	"github.com/andrescamacho/railempire-go/internal/domain/world"
)

// Paths holds the single-source shortest-path result: for every point
// reachable from Source, the distance and the prior point on a shortest
// path. Unreachable points are absent from both maps.
type Paths struct {
	Source   int
	Distance map[int]int
	Prev     map[int]int
}

// ShortestPaths runs Dijkstra from source over the adjacency, with edge
// weight = line length. Disconnected components are tolerated: only the
// reachable set appears in the result. Ties are broken toward the
// smaller neighbor point id so routes are deterministic.
func ShortestPaths(adj Adjacency, lines map[int]*world.Line, source int) *Paths {
	dist := map[int]int{source: 0}
	prev := make(map[int]int)
	visited := make(map[int]bool)

	for {
		// pick the closest unvisited point, smallest idx on equal distance
		current, best := -1, 0
		for p, d := range dist {
			if visited[p] {
				continue
			}
			if current == -1 || d < best || (d == best && p < current) {
				current, best = p, d
			}
		}
		if current == -1 {
			break
		}
		visited[current] = true

		neighbors := make([]int, 0, len(adj[current]))
		for n := range adj[current] {
			neighbors = append(neighbors, n)
		}
		sort.Ints(neighbors)
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			line := lines[adj[current][n]]
			next := best + line.Length
			if d, ok := dist[n]; !ok || next < d {
				dist[n] = next
				prev[n] = current
			}
		}
	}

	return &Paths{Source: source, Distance: dist, Prev: prev}
}

// To reconstructs the point sequence source..target, or nil when the
// target is unreachable
func (p *Paths) To(target int) []int {
	if _, ok := p.Distance[target]; !ok {
		return nil
	}
	route := []int{target}
	for target != p.Source {
		target = p.Prev[target]
		route = append(route, target)
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

// DistanceTo returns the shortest distance to target, or false when
// unreachable
func (p *Paths) DistanceTo(target int) (int, bool) {
	d, ok := p.Distance[target]
	return d, ok
}
