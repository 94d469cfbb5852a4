package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/fitness-tracker/internal/model"
	"github.com/sakif/fitness-tracker/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewAuthHandler(users *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

type loginResponse struct {
	Message string          `json:"message"`
	User    model.LoginView `json:"user"`
	Token   string          `json:"token,omitempty"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// HandleLogin checks email and password.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"email": "...", "password": "..."}
//
// Unknown email and wrong password both return 401 with the same body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    result.User.LoginView(),
		Token:   result.Token,
	})
}

// HandleRegister creates a user from the registration survey.
//
// HTTP: POST /api/register-survey
//
// The response carries the stored user; the password hash is never serialized.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      int(req.Age),
		Weight:   req.Weight,
		Height:   req.Height,
		Gender:   req.Gender,
		BMI:      req.BMI,
		BMR:      req.BMR,
		TDEE:     req.TDEE,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "Registration and survey saved successfully",
		User:    user,
	})
}
