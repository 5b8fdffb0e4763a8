package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	aegis "github.com/aegisauth/aegis"
	"github.com/aegisauth/aegis/internal/http/middleware"
)

type UserHandler struct {
	engine *aegis.Engine
}

func NewUserHandler(engine *aegis.Engine) *UserHandler {
	return &UserHandler{engine: engine}
}

func (h *UserHandler) Data(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	data, err := h.engine.UserData(c.Request.Context(), userID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userData": data})
}
