package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/triptales/internal/server/services"
)

type createReviewRequest struct {
	ItineraryKey string   `json:"itineraryKey"`
	AuthorName   string   `json:"authorName"`
	ReviewText   string   `json:"reviewText"`
	Rating       *float64 `json:"rating"`
}

type reviewResponse struct {
	Message string     `json:"message"`
	Review  reviewView `json:"review"`
}

type reviewListResponse struct {
	Total   int          `json:"total"`
	Reviews []reviewView `json:"reviews"`
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	items, err := h.reviews.List(r.Context(), r.URL.Query().Get("itineraryKey"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := reviewListResponse{Total: len(items), Reviews: make([]reviewView, 0, len(items))}
	for _, rv := range items {
		resp.Reviews = append(resp.Reviews, newReviewView(rv))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(w, r, smallBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}

	rv, err := h.reviews.Create(r.Context(), services.CreateReviewInput{
		ItineraryKey: req.ItineraryKey,
		AuthorName:   req.AuthorName,
		Text:         req.ReviewText,
		Rating:       req.Rating,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reviewResponse{Message: "Review submitted successfully.", Review: newReviewView(rv)})
}
