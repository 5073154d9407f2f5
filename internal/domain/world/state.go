package world

import (
	"fmt"
	"sort"
)

// MapStatic is the MAP(layer:0) response body: the immutable graph
type MapStatic struct {
	Idx    int     `json:"idx"`
	Name   string  `json:"name"`
	Points []Point `json:"points"`
	Lines  []Line  `json:"lines"`
}

// MapDynamic is the MAP(layer:1) response body: the per-tick snapshot
type MapDynamic struct {
	Idx     int               `json:"idx"`
	Ratings map[string]Rating `json:"ratings"`
	Posts   []PostRecord      `json:"posts"`
	Trains  []TrainRecord     `json:"trains"`
}

// PointCoord is one entry of the MAP(layer:10) response
type PointCoord struct {
	Idx int `json:"idx"`
	X   int `json:"x"`
	Y   int `json:"y"`
}

// MapCoords is the MAP(layer:10) response body
type MapCoords struct {
	Idx         int          `json:"idx"`
	Coordinates []PointCoord `json:"coordinates"`
}

// State is the in-memory game model. Points and lines are created once
// per game from the static map; posts, trains and ratings are merged
// in place from each dynamic snapshot so references held by the planner
// stay valid across ticks.
type State struct {
	PlayerIdx string

	MapIdx  int
	MapName string
	Points  map[int]*Point
	Lines   map[int]*Line

	Posts   map[int]*Post // keyed by point idx
	Trains  map[int]*Train
	Ratings map[string]Rating
	Tick    int
}

// NewState creates an empty game state for the given player
func NewState(playerIdx string) *State {
	return &State{
		PlayerIdx: playerIdx,
		Points:    make(map[int]*Point),
		Lines:     make(map[int]*Line),
		Posts:     make(map[int]*Post),
		Trains:    make(map[int]*Train),
		Ratings:   make(map[string]Rating),
	}
}

// ApplyStatic loads the immutable graph. Every line endpoint must be a
// known point.
func (s *State) ApplyStatic(m *MapStatic) error {
	s.MapIdx = m.Idx
	s.MapName = m.Name
	s.Points = make(map[int]*Point, len(m.Points))
	for i := range m.Points {
		p := m.Points[i]
		s.Points[p.Idx] = &p
	}
	s.Lines = make(map[int]*Line, len(m.Lines))
	for i := range m.Lines {
		l := m.Lines[i]
		if l.Length < 1 {
			return fmt.Errorf("line %d: length %d is below 1", l.Idx, l.Length)
		}
		for _, end := range l.Points {
			if _, ok := s.Points[end]; !ok {
				return fmt.Errorf("line %d references unknown point %d", l.Idx, end)
			}
		}
		s.Lines[l.Idx] = &l
	}
	return nil
}

// ApplyDynamic merges a per-tick snapshot into the state
func (s *State) ApplyDynamic(m *MapDynamic) error {
	s.Ratings = m.Ratings
	for _, rec := range m.Posts {
		if _, ok := s.Points[rec.PointIdx]; !ok {
			return fmt.Errorf("post %d references unknown point %d", rec.Idx, rec.PointIdx)
		}
		post, err := PostFromRecord(rec)
		if err != nil {
			return err
		}
		s.Posts[rec.PointIdx] = post
	}
	for _, rec := range m.Trains {
		if existing, ok := s.Trains[rec.Idx]; ok {
			existing.update(rec)
		} else {
			s.Trains[rec.Idx] = trainFromRecord(rec)
		}
	}
	s.Tick++
	return nil
}

// Line returns the line with the given idx
func (s *State) Line(idx int) (*Line, error) {
	line, ok := s.Lines[idx]
	if !ok {
		return nil, fmt.Errorf("line %d not found", idx)
	}
	return line, nil
}

// OwnTown returns the player's town post, or nil before the first
// dynamic snapshot
func (s *State) OwnTown() *Post {
	for _, post := range s.Posts {
		if post.Town != nil && post.Town.PlayerIdx == s.PlayerIdx {
			return post
		}
	}
	return nil
}

// OwnTrains returns the player's trains ordered by idx
func (s *State) OwnTrains() []*Train {
	var trains []*Train
	for _, t := range s.Trains {
		if t.PlayerIdx == s.PlayerIdx {
			trains = append(trains, t)
		}
	}
	sort.Slice(trains, func(i, j int) bool { return trains[i].Idx < trains[j].Idx })
	return trains
}

// PostsOfType returns all posts of the given type ordered by point idx
func (s *State) PostsOfType(t PostType) []*Post {
	var posts []*Post
	for _, post := range s.Posts {
		if post.Type == t {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].PointIdx < posts[j].PointIdx })
	return posts
}

// PointsWithPostType returns the point ids hosting posts of the given type
func (s *State) PointsWithPostType(t PostType) map[int]bool {
	points := make(map[int]bool)
	for _, post := range s.Posts {
		if post.Type == t {
			points[post.PointIdx] = true
		}
	}
	return points
}

// OwnRating returns the player's entry of the ratings table
func (s *State) OwnRating() (Rating, bool) {
	r, ok := s.Ratings[s.PlayerIdx]
	return r, ok
}

// GameOver reports whether the own town carries a GAME_OVER event
func (s *State) GameOver() (int, bool) {
	town := s.OwnTown()
	if town == nil {
		return 0, false
	}
	return town.GameOverAt()
}
