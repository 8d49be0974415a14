package types

// ActiveFilterChip is one removable token for a non default criterion.
type ActiveFilterChip struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Label string `json:"label"`
}

const (
	ChipSearch    = "search"
	ChipRating    = "rating"
	ChipPrice     = "price"
	ChipFavorites = "favorites"
	ChipDates     = "dates"
)
