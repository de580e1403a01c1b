package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/domain"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
)

const (
	MessageLoginSuccessful    = "Login successful"
	MessageInvalidCredentials = "Invalid credentials"
	MessageUnavailable        = "Authentication service unavailable"
	MessageInvalidBody        = "Invalid request body"
)

// maxLoginBody caps the request body; a login payload is a few hundred bytes.
const maxLoginBody = 1 << 16

type AuthHandler struct {
	authService ports.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(auth ports.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: auth, logger: logger.With("component", "auth-handler")}
}

// LoginRequest accepts year as a JSON number, a JSON string or null.
type LoginRequest struct {
	Role     string          `json:"role"`
	UserID   string          `json:"user_id"`
	Password string          `json:"password"`
	Year     json.RawMessage `json:"year,omitempty"`
}

type LoginResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Teacher *domain.TeacherProfile `json:"teacher,omitempty"`
}

// Credentials converts the wire request into the service input.
func (r LoginRequest) Credentials() domain.Credentials {
	return domain.Credentials{
		Role:     r.Role,
		UserID:   r.UserID,
		Password: r.Password,
		Year:     yearText(r.Year),
	}
}

// yearText renders the raw year as the text the identity factory parses.
// Numbers keep their literal form, so 1.5 stays "1.5" and is rejected there.
func yearText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		// Booleans, objects and arrays are not a year.
		return ""
	}
	return n.String()
}

// Login answers 200 on a grant, 401 on any denial, 500 when the credential
// store is unavailable and 400 when the body cannot be decoded.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, LoginResponse{Message: MessageInvalidBody})
		return
	}

	outcome, err := h.authService.Authenticate(r.Context(), req.Credentials())
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, LoginResponse{Message: MessageUnavailable})
		return
	}

	switch outcome.Kind {
	case domain.GrantedStudent:
		h.writeJSON(w, http.StatusOK, LoginResponse{Success: true, Message: MessageLoginSuccessful})
	case domain.GrantedTeacher:
		h.writeJSON(w, http.StatusOK, LoginResponse{Success: true, Message: MessageLoginSuccessful, Teacher: outcome.Teacher})
	default:
		h.writeJSON(w, http.StatusUnauthorized, LoginResponse{Message: MessageInvalidCredentials})
	}
}

func (h *AuthHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
