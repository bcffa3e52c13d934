package images

import (
	"os"

	"github.com/go-pg/pg/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger zerolog.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

// PGStore is the postgres-backed gallery store.
type PGStore struct {
	db *pg.DB
}

func NewPGStore(db *pg.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) GetImage(id string) (*Image, error) {
	img := new(Image)
	err := s.db.Model(img).Where("id = ?", id).Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return img, nil
}

func (s *PGStore) ListSelectable() ([]Image, error) {
	var imgs []Image
	err := s.db.Model(&imgs).
		Where("cloudinary_url IS NOT NULL AND cloudinary_url <> ''").
		Select()
	if err != nil {
		return nil, err
	}
	return imgs, nil
}

// UpdateRatingFields writes all four counters in one UPDATE so a concurrent
// reader never observes total_ratings inconsistent with like + dislike.
func (s *PGStore) UpdateRatingFields(id string, fields RatingFields) error {
	img := &Image{
		ID:           id,
		RatingScore:  fields.RatingScore,
		TotalRatings: fields.TotalRatings,
		LikeCount:    fields.LikeCount,
		DislikeCount: fields.DislikeCount,
	}

	res, err := s.db.Model(img).
		Column("rating_score", "total_ratings", "like_count", "dislike_count").
		WherePK().
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}

	logger.Debug().Msgf("updated rating fields for image: %s", id)
	return nil
}

func (s *PGStore) RecordVote(event *VoteEvent) error {
	_, err := s.db.Model(event).Insert()
	if err != nil {
		return err
	}
	logger.Debug().Msgf("recorded vote event: %s", event.ID)
	return nil
}
