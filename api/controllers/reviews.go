package controllers

import (
	"net/http"

	"github.com/kartosvlad459-art/inko-shop-bot/api/responses"
	"github.com/kartosvlad459-art/inko-shop-bot/internal/reviews"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/logger"
	"github.com/kartosvlad459-art/inko-shop-bot/pkg/types/dto"
)

// ApprovedReviews serves the public testimonial feed, newest first.
func ApprovedReviews(svc *reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		approved, err := svc.Approved(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]dto.Review, 0, len(approved))
		for _, review := range approved {
			out = append(out, dto.ReviewFromModel(review))
		}
		responses.WriteSuccess(w, out)
	}
}
