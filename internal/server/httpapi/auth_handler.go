package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/triptales/internal/server/services"
)

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    userView `json:"user"`
}

type meResponse struct {
	User userView `json:"user"`
}

func newAuthResponse(msg string, res *services.AuthResult) authResponse {
	return authResponse{Message: msg, Token: res.Token, User: newUserView(res.User)}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, smallBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.users.Signup(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse("Account created successfully.", res))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, smallBodyBytes, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse("Login successful.", res))
}

// Me echoes the identity carried by the token; it does not hit the database.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, meResponse{User: claimsUserView(ClaimsFromContext(r.Context()))})
}
