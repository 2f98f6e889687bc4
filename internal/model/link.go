package model

// Link maps a short code to its destination and tracks recorded visits.
// The owner reference is weak: the link survives even if the user record
// disappears, and crediting then fails separately.
type Link struct {
	ShortCode   string `json:"short_code"`
	OwnerID     string `json:"-"`
	OriginalURL string `json:"original_url"`
	Clicks      int64  `json:"clicks"`
}

// UserLink is the external representation of an owned link in API responses.
type UserLink struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
	Clicks      int64  `json:"clicks"`
}
