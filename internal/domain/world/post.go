package world

import "fmt"

// PostRecord is the wire shape of a post in a MAP(dynamic) snapshot.
// The server sends one flat object per post with type-specific fields;
// FromRecord splits it into the tagged Post variants.
type PostRecord struct {
	Idx                int      `json:"idx"`
	Name               string   `json:"name"`
	Type               PostType `json:"type"`
	PointIdx           int      `json:"point_idx"`
	Events             []Event  `json:"events"`
	PlayerIdx          string   `json:"player_idx,omitempty"`
	Level              int      `json:"level,omitempty"`
	NextLevelPrice     *int     `json:"next_level_price,omitempty"`
	Population         int      `json:"population,omitempty"`
	PopulationCapacity int      `json:"population_capacity,omitempty"`
	Product            int      `json:"product,omitempty"`
	ProductCapacity    int      `json:"product_capacity,omitempty"`
	Armor              int      `json:"armor,omitempty"`
	ArmorCapacity      int      `json:"armor_capacity,omitempty"`
	Replenishment      int      `json:"replenishment,omitempty"`
}

// Post is a functional facility at a point. Exactly one of Town, Market,
// Storage is non-nil, matching Type.
type Post struct {
	Idx      int
	Name     string
	Type     PostType
	PointIdx int
	Events   []Event

	Town    *Town
	Market  *Market
	Storage *Storage
}

// Town is the player base: consumes product per population each tick and
// loses armor to refugee events
type Town struct {
	PlayerIdx          string
	Level              int
	NextLevelPrice     *int
	Population         int
	PopulationCapacity int
	Product            int
	ProductCapacity    int
	Armor              int
	ArmorCapacity      int
}

// Market sells product
type Market struct {
	Product         int
	ProductCapacity int
	Replenishment   int
}

// Storage sells armor
type Storage struct {
	Armor         int
	ArmorCapacity int
	Replenishment int
}

// PostFromRecord converts a wire record into a tagged Post
func PostFromRecord(rec PostRecord) (*Post, error) {
	post := &Post{
		Idx:      rec.Idx,
		Name:     rec.Name,
		Type:     rec.Type,
		PointIdx: rec.PointIdx,
		Events:   rec.Events,
	}
	switch rec.Type {
	case PostTown:
		post.Town = &Town{
			PlayerIdx:          rec.PlayerIdx,
			Level:              rec.Level,
			NextLevelPrice:     rec.NextLevelPrice,
			Population:         rec.Population,
			PopulationCapacity: rec.PopulationCapacity,
			Product:            rec.Product,
			ProductCapacity:    rec.ProductCapacity,
			Armor:              rec.Armor,
			ArmorCapacity:      rec.ArmorCapacity,
		}
	case PostMarket:
		post.Market = &Market{
			Product:         rec.Product,
			ProductCapacity: rec.ProductCapacity,
			Replenishment:   rec.Replenishment,
		}
	case PostStorage:
		post.Storage = &Storage{
			Armor:         rec.Armor,
			ArmorCapacity: rec.ArmorCapacity,
			Replenishment: rec.Replenishment,
		}
	default:
		return nil, fmt.Errorf("post %d: unknown post type %d", rec.Idx, rec.Type)
	}
	return post, nil
}

// Stock returns the current amount and capacity of the goods this post
// sells; zero values for towns
func (p *Post) Stock(goods GoodsType) (stock, capacity, replenishment int) {
	switch goods {
	case GoodsProduct:
		if p.Market != nil {
			return p.Market.Product, p.Market.ProductCapacity, p.Market.Replenishment
		}
	case GoodsArmor:
		if p.Storage != nil {
			return p.Storage.Armor, p.Storage.ArmorCapacity, p.Storage.Replenishment
		}
	}
	return 0, 0, 0
}

// GameOverAt returns the tick of a GAME_OVER event on this post, if any
func (p *Post) GameOverAt() (int, bool) {
	for _, ev := range p.Events {
		if ev.Type == EventGameOver {
			return ev.Tick, true
		}
	}
	return 0, false
}
