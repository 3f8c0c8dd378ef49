package request

type CreateReviewRequest struct {
	DreamID          int64  `json:"dream_id" validate:"required,gt=0"`
	Review           string `json:"review" validate:"max=2000"`
	OverallRating    int    `json:"overall_rating" validate:"required,min=1,max=5"`
	EthicsRating     *int   `json:"ethics_rating,omitempty" validate:"omitempty,min=1,max=5"`
	CreativityRating *int   `json:"creativity_rating,omitempty" validate:"omitempty,min=1,max=5"`
	WritingRating    *int   `json:"writing_rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// UpdateReviewRequest is a full replace: omitted sub-ratings become null.
type UpdateReviewRequest struct {
	Review           string `json:"review" validate:"max=2000"`
	OverallRating    int    `json:"overall_rating" validate:"required,min=1,max=5"`
	EthicsRating     *int   `json:"ethics_rating,omitempty" validate:"omitempty,min=1,max=5"`
	CreativityRating *int   `json:"creativity_rating,omitempty" validate:"omitempty,min=1,max=5"`
	WritingRating    *int   `json:"writing_rating,omitempty" validate:"omitempty,min=1,max=5"`
}
