package handler

import (
	"encoding/json"
	"go-auth-api/common"
	"go-auth-api/service"
	"net/http"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Profile godoc
// @Summary      Return the authenticated user's profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]model.User
// @Failure      401 {object} common.AppError
// @Router       /user/profile [get]
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		common.FromServiceError(common.ErrUnauthorized).Send(w)
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		common.NewAppError(http.StatusInternalServerError, "Internal server error", err).Send(w)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"user": user})
}
