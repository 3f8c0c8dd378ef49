package entity

type Dream struct {
	Owned
	Title   string   `json:"title" db:"title"`
	Content string   `json:"content" db:"content"`
	Tags    []string `json:"tags" db:"tags"` // nil when the column is null
}

// DreamWithReviews is a dream with its reviews embedded through the dream_id foreign key.
type DreamWithReviews struct {
	Dream
	Reviews []Review `json:"reviews"`
}
