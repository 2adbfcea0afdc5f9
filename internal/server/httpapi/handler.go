// Package httpapi exposes the TripTales JSON API over chi. Handlers decode
// requests, call the services and translate their sentinel errors into HTTP
// status codes; no business rule lives here.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/logging"
	"github.com/dmitrijs2005/triptales/internal/server/auth"
	"github.com/dmitrijs2005/triptales/internal/server/models"
	"github.com/dmitrijs2005/triptales/internal/server/services"
	"github.com/dmitrijs2005/triptales/internal/server/storage"
)

const smallBodyBytes = 64 << 10

type IdentityService interface {
	Authenticator
	Signup(ctx context.Context, fullName, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
}

type ItineraryService interface {
	Create(ctx context.Context, creator *auth.Claims, in services.CreateItineraryInput) (*models.Itinerary, error)
	Get(ctx context.Context, id string) (*models.Itinerary, error)
	List(ctx context.Context, status string, limit int) (*models.ItineraryPage, error)
	SetStatus(ctx context.Context, caller *auth.Claims, id, status, note string) (*models.Itinerary, error)
	RadiusKm() float64
}

type ReviewService interface {
	Create(ctx context.Context, in services.CreateReviewInput) (*models.Review, error)
	List(ctx context.Context, key string) ([]*models.Review, error)
}

type Handler struct {
	users       IdentityService
	itineraries ItineraryService
	reviews     ReviewService
	photos      storage.PhotoStore
	log         logging.Logger

	mapsAPIKey       string
	maxUploadBodyLen int64
}

// decodeJSON reads at most limit bytes of JSON into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return fmt.Errorf("%w: request body exceeds %d bytes", common.ErrPayloadTooLarge, limit)
		}
		return fmt.Errorf("%w: invalid JSON body", common.ErrInvalidArgument)
	}
	return nil
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type publicConfigResponse struct {
	GoogleMapsAPIKey string `json:"googleMapsApiKey"`
}

func (h *Handler) PublicConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, publicConfigResponse{GoogleMapsAPIKey: h.mapsAPIKey})
}

const chatReply = "TripTales assistant is running in offline mode. " +
	"Configure GROQ/XAI integration to enable live AI replies."

type chatResponse struct {
	Reply string `json:"reply"`
}

// Chat is an offline stub; the request body is ignored.
func (h *Handler) Chat(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, chatResponse{Reply: chatReply})
}
