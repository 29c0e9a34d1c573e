package post

import "encoding/json"

// Post is the stored blog record exposed to the frontend.
type Post struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// Extra preserves any additional fields supplied at creation so they
	// survive the round trip back to clients.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra under the canonical fields.
func (p Post) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+3)
	for k, v := range p.Extra {
		out[k] = v
	}
	out["id"] = p.ID
	out["title"] = p.Title
	out["content"] = p.Content
	return json.Marshal(out)
}

// Seed provides the two posts present at process start.
func Seed() []Post {
	return []Post{
		{ID: 1, Title: "First post", Content: "This is the first post."},
		{ID: 2, Title: "Second post", Content: "This is the second post."},
	}
}
