package domain

// PostSummary is the resolved view of a referenced post, embedded in
// shared_post stream events so clients can render the share without a
// second fetch. Post CRUD itself lives outside this service.
type PostSummary struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`
	Caption  string `json:"caption,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}
