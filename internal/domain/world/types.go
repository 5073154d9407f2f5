package world

// PostType discriminates the functional facility hosted at a point
type PostType int

const (
	PostTown    PostType = 1
	PostMarket  PostType = 2
	PostStorage PostType = 3
)

// GoodsType is the kind of load a train carries. The values intentionally
// match the post types that sell them: markets sell product, storages armor.
type GoodsType int

const (
	GoodsNone    GoodsType = 0
	GoodsProduct GoodsType = 2
	GoodsArmor   GoodsType = 3
)

// PostFor maps a goods type to the post type that replenishes it
func (g GoodsType) PostFor() PostType {
	return PostType(g)
}

// Event types attached to town posts
const (
	EventRefugees int = 4
	EventGameOver int = 100
)

// Point is a node of the map graph; PostIdx is set when a post sits on it
type Point struct {
	Idx     int  `json:"idx"`
	PostIdx *int `json:"post_idx"`
}

// Line is an undirected edge. Points[0] is the start endpoint: position 0
// on the line is Points[0], position Length is Points[1], and speed +1
// moves toward Points[1]. Length doubles as the shortest-path weight and
// as the number of integer positions a train crosses; the two are the
// same metric and must not be separated.
type Line struct {
	Idx    int    `json:"idx"`
	Length int    `json:"length"`
	Points [2]int `json:"points"`
}

// Start returns the endpoint at position 0
func (l *Line) Start() int { return l.Points[0] }

// End returns the endpoint at position Length
func (l *Line) End() int { return l.Points[1] }

// OtherEnd returns the endpoint opposite to the given one
func (l *Line) OtherEnd(point int) int {
	if point == l.Points[0] {
		return l.Points[1]
	}
	return l.Points[0]
}

// HasEnd reports whether the point is one of the line's endpoints
func (l *Line) HasEnd(point int) bool {
	return point == l.Points[0] || point == l.Points[1]
}

// Event is a server-emitted notice attached to a town post
type Event struct {
	Type           int `json:"type"`
	Tick           int `json:"tick"`
	RefugeesNumber int `json:"refugees_number,omitempty"`
}

// Rating is one player's entry of the per-tick ratings table
type Rating struct {
	Idx    string `json:"idx"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}
