package model

// Tweet holds the fields extracted from one search result: the author
// profile metadata plus the full post text. All fields are plain strings;
// a field the API omitted decodes to "" and is treated as absent
// everywhere downstream.
//
// The struct is comparable, so it can be used directly as a map key for
// structural deduplication: two tweets are duplicates only when all six
// fields are equal.
type Tweet struct {
	CreatedAt   string `json:"created_at"`
	Name        string `json:"name"`
	ScreenName  string `json:"screen_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Text        string `json:"text"`
}

// ScoredTweet is a Tweet with sentiment scores attached. Polarity is in
// [-1, 1], Subjectivity in [0, 1].
type ScoredTweet struct {
	Tweet
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// FieldNames returns the extracted field names in output column order.
func FieldNames() []string {
	return []string{"created_at", "name", "screen_name", "location", "description", "text"}
}

// ScoredFieldNames returns the full CSV column order: the extracted
// fields followed by the two sentiment columns.
func ScoredFieldNames() []string {
	return append(FieldNames(), "polarity", "subjectivity")
}

// Fields returns the tweet's values in FieldNames order.
func (t Tweet) Fields() []string {
	return []string{t.CreatedAt, t.Name, t.ScreenName, t.Location, t.Description, t.Text}
}
