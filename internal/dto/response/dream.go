package response

import (
	"github.com/pudey33/DreamRate/internal/data/entity"
)

// SampleResponse is a random selection of dreams. Requested may exceed Count when
// fewer dreams are eligible.
type SampleResponse[T any] struct {
	Requested int `json:"requested"`
	Count     int `json:"count"`
	Dreams    []T `json:"dreams"`
}

func NewSampleResponse[T entity.Dream | entity.DreamWithReviews](requested int, dreams []T) SampleResponse[T] {
	return SampleResponse[T]{
		Requested: requested,
		Count:     len(dreams),
		Dreams:    dreams,
	}
}
