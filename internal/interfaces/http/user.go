package http

import (
	"net/http"

	"household/internal/domain/user"
)

type UserHandler struct {
	userService *user.Service
}

func NewUserHandler(userService *user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Nickname    string `json:"nickname"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// HandleRegister creates a user together with the default categories.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.userService.Register(r.Context(), user.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Nickname:    req.Nickname,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		writeError(w, "register user", err)
		return
	}

	logger.Info("user registered", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	u, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		writeError(w, "get user", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusOK, u)
}
