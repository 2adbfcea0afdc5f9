package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/server/services"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
	"github.com/go-chi/chi/v5"
)

type createItineraryRequest struct {
	Title                string   `json:"title"`
	Route                string   `json:"route"`
	Duration             string   `json:"duration"`
	Budget               string   `json:"budget"`
	Highlights           string   `json:"highlights"`
	LocationLatitude     *float64 `json:"locationLatitude"`
	LocationLongitude    *float64 `json:"locationLongitude"`
	CapturedPhotoDataURL string   `json:"capturedPhotoDataUrl"`
}

type updateStatusRequest struct {
	ReviewStatus string  `json:"reviewStatus"`
	ReviewNote   *string `json:"reviewNote"`
}

type itineraryResponse struct {
	Message   string        `json:"message,omitempty"`
	Itinerary itineraryView `json:"itinerary"`
}

type itineraryListResponse struct {
	Total int64           `json:"total"`
	Items []itineraryView `json:"items"`
}

func (h *Handler) ListItineraries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: limit must be an integer", common.ErrInvalidArgument))
			return
		}
		limit = n
	}

	page, err := h.itineraries.List(r.Context(), q.Get("status"), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	radius := h.itineraries.RadiusKm()
	resp := itineraryListResponse{Total: page.Total, Items: make([]itineraryView, 0, len(page.Items))}
	for _, it := range page.Items {
		resp.Items = append(resp.Items, newItineraryView(it, radius))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := h.itineraries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryResponse{Itinerary: newItineraryView(it, h.itineraries.RadiusKm())})
}

func (h *Handler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var req createItineraryRequest
	if err := decodeJSON(w, r, h.maxUploadBodyLen, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.LocationLatitude == nil {
		writeError(w, fmt.Errorf("%w: locationLatitude is required", common.ErrInvalidArgument))
		return
	}
	if req.LocationLongitude == nil {
		writeError(w, fmt.Errorf("%w: locationLongitude is required", common.ErrInvalidArgument))
		return
	}

	it, err := h.itineraries.Create(r.Context(), ClaimsFromContext(r.Context()), services.CreateItineraryInput{
		Title:        req.Title,
		Route:        req.Route,
		Duration:     req.Duration,
		Budget:       req.Budget,
		Highlights:   req.Highlights,
		Latitude:     *req.LocationLatitude,
		Longitude:    *req.LocationLongitude,
		PhotoDataURL: req.CapturedPhotoDataURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itineraryResponse{Itinerary: newItineraryView(it, h.itineraries.RadiusKm())})
}

func (h *Handler) UpdateItineraryStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(w, r, smallBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}
	note := ""
	if req.ReviewNote != nil {
		note = *req.ReviewNote
	}

	it, err := h.itineraries.SetStatus(r.Context(), ClaimsFromContext(r.Context()), chi.URLParam(r, "id"), req.ReviewStatus, note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itineraryResponse{
		Message:   "Itinerary review status updated.",
		Itinerary: newItineraryView(it, h.itineraries.RadiusKm()),
	})
}

// ServePhoto streams a local proof photo or redirects to its object URL.
func (h *Handler) ServePhoto(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if storage.ValidName(name) != nil {
		writeError(w, fmt.Errorf("%w: photo not found", common.ErrNotFound))
		return
	}

	loc, err := h.photos.Locate(r.Context(), name)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			h.log.Error(r.Context(), "locate photo", "name", name, "error", err)
		}
		writeError(w, err)
		return
	}
	if loc.URL != "" {
		http.Redirect(w, r, loc.URL, http.StatusFound)
		return
	}
	http.ServeFile(w, r, loc.FilePath)
}
