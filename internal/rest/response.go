package rest

import (
	"errors"
	"net/http"

	"swapMarket/business/feed"
	"swapMarket/pkg/logger"
	jsonres "swapMarket/pkg/response"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// feedError maps engine errors to HTTP. Errors that leave a usable feed
// behind (stale fetch, superseded fetch) carry the state along.
func feedError(c echo.Context, err error, state *feed.FeedState) error {
	var body interface{}
	if state != nil && state.InstanceID != "" {
		body = state
	}

	switch {
	case errors.Is(err, feed.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, jsonres.Error("FEED_NOT_FOUND", err.Error(), nil))
	case errors.Is(err, feed.ErrDecisionOwnership):
		return c.JSON(http.StatusForbidden, jsonres.Error("FORBIDDEN", err.Error(), nil))
	case errors.Is(err, feed.ErrInvalidDecision):
		return c.JSON(http.StatusBadRequest, jsonres.Error("BAD_REQUEST", err.Error(), nil))
	case errors.Is(err, feed.ErrSessionNotReady):
		return c.JSON(http.StatusConflict, jsonres.ErrorWithData("FEED_NOT_READY", err.Error(), body))
	case errors.Is(err, feed.ErrStaleFetch):
		return c.JSON(http.StatusConflict, jsonres.ErrorWithData("FEED_SUPERSEDED", err.Error(), body))
	case errors.Is(err, feed.ErrSwipeNotSaved):
		return c.JSON(http.StatusServiceUnavailable, jsonres.ErrorWithData("SWIPE_NOT_SAVED", "swipe was not saved, try again", body))
	case feed.IsTransient(err):
		return c.JSON(http.StatusServiceUnavailable, jsonres.ErrorWithData("FEED_STALE", "couldn't refresh feed", body))
	default:
		logger.Error("Unhandled feed error", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "internal server error"})
	}
}
