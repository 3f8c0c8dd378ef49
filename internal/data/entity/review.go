package entity

type Review struct {
	Owned
	DreamID          int64  `json:"dream_id" db:"dream_id"`
	Body             string `json:"review" db:"review"`
	OverallRating    int    `json:"overall_rating" db:"overall_rating"`
	EthicsRating     *int   `json:"ethics_rating" db:"ethics_rating"`
	CreativityRating *int   `json:"creativity_rating" db:"creativity_rating"`
	WritingRating    *int   `json:"writing_rating" db:"writing_rating"`
}

// ReviewWithDream is a review with its parent dream embedded.
type ReviewWithDream struct {
	Review
	Dream *Dream `json:"dreams"`
}
