package rating

import (
	"errors"
	"os"
	"time"

	"alice-display-api/src/images"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger zerolog.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

// ErrInvalidRating is returned for any vote value other than +1 or -1,
// before the store is touched.
var ErrInvalidRating = errors.New("rating must be 1 (like) or -1 (dislike)")

// Result holds the counters after a vote has been applied, plus the score
// that was observed before it.
type Result struct {
	PreviousScore  int `json:"previous_score"`
	NewRatingScore int `json:"new_rating_score"`
	TotalRatings   int `json:"total_ratings"`
	LikeCount      int `json:"like_count"`
	DislikeCount   int `json:"dislike_count"`
}

// Engine applies votes to the cumulative rating counters of gallery images.
type Engine struct {
	store images.Store
}

func NewEngine(store images.Store) *Engine {
	return &Engine{store: store}
}

// ApplyVote applies a single like/dislike to one image and persists the four
// rating counters as one write. The read-modify-write is not atomic against
// concurrent votes on the same image: two simultaneous votes may race and the
// later write wins, silently dropping one increment. Acceptable for casual
// display feedback.
func (e *Engine) ApplyVote(vote images.Vote) (*Result, error) {
	if vote.Rating != 1 && vote.Rating != -1 {
		return nil, ErrInvalidRating
	}

	img, err := e.store.GetImage(vote.ImageID)
	if err != nil {
		return nil, err
	}

	previous := img.RatingScore

	if vote.Rating == 1 {
		img.LikeCount++
	} else {
		img.DislikeCount++
	}

	fields := images.RatingFields{
		RatingScore:  img.LikeCount - img.DislikeCount,
		TotalRatings: img.LikeCount + img.DislikeCount,
		LikeCount:    img.LikeCount,
		DislikeCount: img.DislikeCount,
	}

	// A write failure is surfaced as-is: the outcome is unknown and retrying
	// could double-increment the counters.
	if err := e.store.UpdateRatingFields(vote.ImageID, fields); err != nil {
		return nil, err
	}

	e.recordVote(vote)

	return &Result{
		PreviousScore:  previous,
		NewRatingScore: fields.RatingScore,
		TotalRatings:   fields.TotalRatings,
		LikeCount:      fields.LikeCount,
		DislikeCount:   fields.DislikeCount,
	}, nil
}

// recordVote stores the vote and its context for analytics. Best-effort: a
// failure here never fails the vote that was already applied.
func (e *Engine) recordVote(vote images.Vote) {
	event := &images.VoteEvent{
		ID:         uuid.New().String(),
		ImageID:    vote.ImageID,
		Rating:     vote.Rating,
		Timestamp:  vote.Context.Timestamp,
		Weather:    vote.Context.Weather,
		TimePeriod: vote.Context.TimePeriod,
		Activity:   vote.Context.Activity,
		SessionID:  vote.Context.SessionID,
		RecordedAt: time.Now(),
	}

	if err := e.store.RecordVote(event); err != nil {
		logger.Error().Msgf("failed to record vote event for image %s: %v", vote.ImageID, err)
	}
}
