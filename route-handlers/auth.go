package routehandlers

import (
	"errors"
	"net/http"

	"github.com/coreybb/tasktracker/auth"
	"github.com/coreybb/tasktracker/models"
	"github.com/coreybb/tasktracker/webutil"
)

type AuthHandler struct {
	Service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{Service: service}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type profileResponse struct {
	User *models.User `json:"user"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	result, err := h.Service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return authError(err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   result.Token,
		User:    result.User,
	})
	return nil
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	result, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return authError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
	return nil
}

func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) error {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		return webutil.ErrUnauthorized("")
	}

	user, err := h.Service.Profile(r.Context(), caller.ID)
	if err != nil {
		return authError(err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, profileResponse{User: user})
	return nil
}

// authError maps auth failures onto their HTTP form. Validation errors pass
// through untouched for MakeHandler.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return webutil.ErrBadRequestWrap("User already exists with this email", err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return webutil.ErrUnauthorizedWrap("Invalid email or password", err)
	case errors.Is(err, auth.ErrUserNotFound):
		return webutil.ErrNotFoundWrap("User not found", err)
	}
	return err
}
