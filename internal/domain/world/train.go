package world

// TrainRecord is the wire shape of a train in a MAP(dynamic) snapshot
type TrainRecord struct {
	Idx            int       `json:"idx"`
	PlayerIdx      string    `json:"player_idx"`
	LineIdx        int       `json:"line_idx"`
	Position       int       `json:"position"`
	Speed          int       `json:"speed"`
	Goods          int       `json:"goods"`
	GoodsCapacity  int       `json:"goods_capacity"`
	GoodsType      GoodsType `json:"goods_type"`
	Level          int       `json:"level,omitempty"`
	NextLevelPrice *int      `json:"next_level_price,omitempty"`
	Cooldown       int       `json:"cooldown"`
}

// Train is a mobile agent: always on exactly one line, at an integer
// position in [0, line.Length], with discrete speed -1, 0 or +1
type Train struct {
	Idx            int
	PlayerIdx      string
	LineIdx        int
	Position       int
	Speed          int
	Goods          int
	GoodsCapacity  int
	GoodsType      GoodsType
	Level          int
	NextLevelPrice *int
	Cooldown       int
}

func trainFromRecord(rec TrainRecord) *Train {
	return &Train{
		Idx:            rec.Idx,
		PlayerIdx:      rec.PlayerIdx,
		LineIdx:        rec.LineIdx,
		Position:       rec.Position,
		Speed:          rec.Speed,
		Goods:          rec.Goods,
		GoodsCapacity:  rec.GoodsCapacity,
		GoodsType:      rec.GoodsType,
		Level:          rec.Level,
		NextLevelPrice: rec.NextLevelPrice,
		Cooldown:       rec.Cooldown,
	}
}

func (t *Train) update(rec TrainRecord) {
	t.PlayerIdx = rec.PlayerIdx
	t.LineIdx = rec.LineIdx
	t.Position = rec.Position
	t.Speed = rec.Speed
	t.Goods = rec.Goods
	t.GoodsCapacity = rec.GoodsCapacity
	t.GoodsType = rec.GoodsType
	t.Level = rec.Level
	t.NextLevelPrice = rec.NextLevelPrice
	t.Cooldown = rec.Cooldown
}

// IsFull reports whether the train cannot load any more goods
func (t *Train) IsFull() bool {
	return t.Goods >= t.GoodsCapacity
}

// FreeSpace returns the remaining goods capacity
func (t *Train) FreeSpace() int {
	return t.GoodsCapacity - t.Goods
}

// AtPoint returns the point the train stands on, or false when mid-line
func (t *Train) AtPoint(line *Line) (int, bool) {
	switch t.Position {
	case 0:
		return line.Points[0], true
	case line.Length:
		return line.Points[1], true
	}
	return 0, false
}

// NearestEndpoint returns the endpoint the train is closest to; the start
// endpoint wins when the train has not yet crossed the full line
func (t *Train) NearestEndpoint(line *Line) int {
	if t.Position < line.Length {
		return line.Points[0]
	}
	return line.Points[1]
}
