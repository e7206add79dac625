package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marqueehq/marquee-backend/internal/http/response"
	"github.com/marqueehq/marquee-backend/internal/pkg/ctxutil"
)

var errMissingQuery = errors.New("q is required")

// currentUserID returns the authenticated user. The auth middleware rejects
// requests before a handler runs without one, so uuid.Nil here means a
// route was registered outside the protected group by mistake.
func currentUserID(c *gin.Context) uuid.UUID {
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		return rd.UserID
	}
	return uuid.Nil
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
