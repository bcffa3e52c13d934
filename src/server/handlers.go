package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"alice-display-api/src/images"
	"alice-display-api/src/match"
	"alice-display-api/src/rating"
)

// RateReq is the form of an incoming JSON payload for submitting a vote on
// the currently displayed image.
type RateReq struct {
	ImageID string         `json:"image_id"`
	Rating  int            `json:"rating"`
	Context images.Context `json:"context"`
}

// RateRes reports the updated counters after a vote was applied.
type RateRes struct {
	Success        bool `json:"success"`
	PreviousScore  int  `json:"previous_score"`
	NewRatingScore int  `json:"new_rating_score"`
	TotalRatings   int  `json:"total_ratings"`
	LikeCount      int  `json:"like_count"`
	DislikeCount   int  `json:"dislike_count"`
}

// ChangeReq asks for a replacement image matching the supplied context.
type ChangeReq struct {
	CurrentImageID string         `json:"current_image_id"`
	Context        images.Context `json:"context"`
}

// ImageView is the image shape returned to the panel.
type ImageView struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CloudinaryURL string `json:"cloudinary_url"`
	Weather       string `json:"weather"`
	TimePeriod    string `json:"time_period"`
	Activity      string `json:"activity"`
	RatingScore   int    `json:"rating_score"`
}

// ChangeRes carries the selected replacement image.
type ChangeRes struct {
	Success bool      `json:"success"`
	Image   ImageView `json:"image"`
}

func health(service string, endpoint string) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthRes{
			Status:   "ok",
			Service:  service,
			Endpoint: endpoint,
		})
	}
}

func handleRate(engine *rating.Engine) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		var payload RateReq

		decoder := json.NewDecoder(req.Body)
		if err := decoder.Decode(&payload); err != nil {
			writeError(http.StatusBadRequest, "JSON body missing or malformed", w)
			return
		}

		if payload.ImageID == "" {
			writeError(http.StatusBadRequest, "Missing required field: image_id", w)
			return
		}

		res, err := engine.ApplyVote(images.Vote{
			ImageID: payload.ImageID,
			Rating:  payload.Rating,
			Context: payload.Context,
		})
		if err != nil {
			switch {
			case errors.Is(err, rating.ErrInvalidRating):
				writeError(http.StatusBadRequest, "Rating must be 1 (like) or -1 (dislike)", w)
			case errors.Is(err, images.ErrNotFound):
				writeError(http.StatusNotFound, "not found", w)
			default:
				logger.Error().Msgf("error applying vote to image %s: %v", payload.ImageID, err)
				writeError(http.StatusInternalServerError, "Something went wrong", w)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RateRes{
			Success:        true,
			PreviousScore:  res.PreviousScore,
			NewRatingScore: res.NewRatingScore,
			TotalRatings:   res.TotalRatings,
			LikeCount:      res.LikeCount,
			DislikeCount:   res.DislikeCount,
		})
	}
}

func handleChange(matcher *match.Matcher) func(w http.ResponseWriter, req *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		var payload ChangeReq

		decoder := json.NewDecoder(req.Body)
		if err := decoder.Decode(&payload); err != nil {
			writeError(http.StatusBadRequest, "JSON body missing or malformed", w)
			return
		}

		img, err := matcher.SelectReplacement(payload.CurrentImageID, payload.Context)
		if err != nil {
			if errors.Is(err, match.ErrNoCandidates) {
				// The panel treats an empty gallery as a soft condition,
				// matching the wire shape it already speaks.
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(ErrorRes{
					Success: false,
					Error:   "no_alternatives_found",
					Message: "No alternative images found matching current context",
				})
				return
			}
			logger.Error().Msgf("error selecting replacement image: %v", err)
			writeError(http.StatusInternalServerError, "Something went wrong", w)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChangeRes{
			Success: true,
			Image: ImageView{
				ID:            img.ID,
				Title:         img.Title,
				CloudinaryURL: img.CloudinaryURL,
				Weather:       img.Weather,
				TimePeriod:    img.TimePeriod,
				Activity:      img.Activity,
				RatingScore:   img.RatingScore,
			},
		})
	}
}
