package request

type CreateDreamRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Content string   `json:"content" validate:"required,min=1,max=10000"`
	Tags    []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=32"`
}

// UpdateDreamRequest replaces both fields; tags are left as they are.
type UpdateDreamRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

type SampleRequest struct {
	Count int `json:"count" validate:"min=1,max=50"`
}
