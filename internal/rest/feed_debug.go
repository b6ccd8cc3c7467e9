package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

// GET /api/v1/feed/:instance/debug?viewer_id=42
// Admins may inspect another viewer's instance through viewer_id.
func (h *FeedHandler) Debug(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	if raw := c.QueryParam("viewer_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid viewer id"})
		}
		uid = uint(v)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	ranked, err := h.feedService.Debug(ctx, uid, id)
	if err != nil {
		return feedError(c, err, nil)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ranked))
}
