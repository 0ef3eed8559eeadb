package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/kalambet/firmsfinder/internal/directory"
)

var (
	ErrSessionLoading = errors.New("session still loading")
	ErrLoginRequired  = errors.New("login required")
	ErrRatingRequired = errors.New("rating required")
	ErrInvalidRating  = errors.New("invalid rating")
)

// ReviewMessage returns the user-facing text for a SubmitReview error.
func ReviewMessage(err error) string {
	var apiErr *directory.APIError
	switch {
	case err == nil:
		return "Review submitted successfully!"
	case errors.Is(err, ErrSessionLoading):
		return "Checking login status, please wait."
	case errors.Is(err, ErrLoginRequired):
		return "Please login to submit a review."
	case errors.Is(err, ErrRatingRequired):
		return "Please select a rating before submitting."
	case errors.Is(err, ErrInvalidRating):
		return "Please choose Bad, Neutral, Good or Excellent."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	default:
		return "Failed to submit review. Please try again."
	}
}

type Rating string

const (
	RatingBad       Rating = "Bad"
	RatingNeutral   Rating = "Neutral"
	RatingGood      Rating = "Good"
	RatingExcellent Rating = "Excellent"
)

var Ratings = []Rating{RatingBad, RatingNeutral, RatingGood, RatingExcellent}

func (r Rating) Valid() bool {
	for _, v := range Ratings {
		if r == v {
			return true
		}
	}
	return false
}

type ReviewForm struct {
	Rating   Rating `json:"rating"`
	Feedback string `json:"feedback"`
}

// SubmitReview posts a review as the signed-in user. Session and form checks
// run before any network call.
func (h *Home) SubmitReview(ctx context.Context, form ReviewForm) error {
	st := h.sessions.State()
	switch {
	case st.Loading:
		return ErrSessionLoading
	case st.User == nil:
		return ErrLoginRequired
	case form.Rating == "":
		return ErrRatingRequired
	case !form.Rating.Valid():
		return fmt.Errorf("%w: %q", ErrInvalidRating, form.Rating)
	}

	err := h.dir.SubmitReview(ctx, directory.Review{
		User:     st.User.ID,
		UserName: st.User.Name,
		Rating:   string(form.Rating),
		Feedback: form.Feedback,
	})
	if err != nil {
		return fmt.Errorf("submitting review: %w", err)
	}
	return nil
}
