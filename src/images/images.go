package images

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced image id does not exist in the store.
var ErrNotFound = errors.New("image not found")

// Image is one display-able picture in the gallery. Records are created and
// curated externally; this service only reads their attributes and mutates
// the four rating fields.
type Image struct {
	ID            string `json:"id" pg:",pk"`
	Title         string `json:"title"`
	CloudinaryURL string `json:"cloudinary_url"` // Empty means the image is not selectable.
	Weather       string `json:"weather"`
	TimePeriod    string `json:"time_period"`
	Activity      string `json:"activity"`
	RatingScore   int    `json:"rating_score" pg:",use_zero"` // like_count - dislike_count
	TotalRatings  int    `json:"total_ratings" pg:",use_zero"`
	LikeCount     int    `json:"like_count" pg:",use_zero"`
	DislikeCount  int    `json:"dislike_count" pg:",use_zero"`
}

// Selectable reports whether the image can be shown on the panel.
func (img *Image) Selectable() bool {
	return img.CloudinaryURL != ""
}

// Context describes the panel's surroundings at request time. It is consumed
// once per request and never persisted as matching state.
type Context struct {
	Timestamp  string `json:"timestamp,omitempty"`
	Weather    string `json:"weather,omitempty"`
	TimePeriod string `json:"time_period,omitempty"`
	Hour       *int   `json:"hour,omitempty"`
	Activity   string `json:"activity,omitempty"`
	SessionID  string `json:"session_id,omitempty"` // analytics only, never used for matching
}

// Vote is a single like/dislike submission tied to one image.
type Vote struct {
	ImageID string
	Rating  int // +1 like, -1 dislike
	Context Context
}

// RatingFields are the four counters mutated together on every vote.
type RatingFields struct {
	RatingScore  int
	TotalRatings int
	LikeCount    int
	DislikeCount int
}

// VoteEvent is the analytics record persisted for each applied vote. It
// carries the full Context observed at voting time.
type VoteEvent struct {
	ID         string `pg:",pk"`
	ImageID    string
	Rating     int `pg:",use_zero"`
	Timestamp  string
	Weather    string
	TimePeriod string
	Activity   string
	SessionID  string
	RecordedAt time.Time
}

// Store is the narrow interface over the external gallery database. Both the
// rating engine and the context matcher only ever reach the database through
// it; neither issues schema-altering operations.
type Store interface {
	// GetImage returns the image with the given id, or ErrNotFound.
	GetImage(id string) (*Image, error)

	// ListSelectable returns every image with a non-empty cloudinary URL.
	ListSelectable() ([]Image, error)

	// UpdateRatingFields persists the four rating counters as a single
	// logical write. Returns ErrNotFound if the id is unknown.
	UpdateRatingFields(id string, fields RatingFields) error

	// RecordVote stores a vote event for analytics.
	RecordVote(event *VoteEvent) error
}
