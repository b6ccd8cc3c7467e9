package rest

import (
	"context"
	"net/http"
	"time"

	"swapMarket/business/feed"
	"swapMarket/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type (
	FeedHandler struct {
		validate    *validator.Validate
		feedService FeedService
		timeout     time.Duration
	}

	FeedService interface {
		Open(ctx context.Context, viewerID uint, filter feed.FilterSpec) (feed.FeedState, error)
		State(viewerID uint, instanceID string) (feed.FeedState, error)
		SetFilter(ctx context.Context, viewerID uint, instanceID string, filter feed.FilterSpec) (feed.FeedState, error)
		Refresh(ctx context.Context, viewerID uint, instanceID string) (feed.FeedState, error)
		Like(ctx context.Context, viewerID uint, instanceID string, counterOfferID *uint64) (feed.SwipeOutcome, error)
		Dislike(ctx context.Context, viewerID uint, instanceID string) (feed.SwipeOutcome, error)
		Undo(ctx context.Context, viewerID uint, instanceID string) (feed.UndoOutcome, error)
		Close(viewerID uint, instanceID string) error
		Debug(ctx context.Context, viewerID uint, instanceID string) ([]domain.RankedCandidate, error)
	}

	FilterRequest struct {
		Location   string   `json:"location" validate:"max=120"`
		MinPrice   float64  `json:"min_price" validate:"gte=0"`
		MaxPrice   float64  `json:"max_price" validate:"gte=0"`
		Categories []string `json:"categories" validate:"max=50,dive,max=64"`
		Conditions []string `json:"conditions" validate:"max=10,dive,max=32"`
		Kind       string   `json:"kind" validate:"omitempty,oneof=all good service"`
		Query      string   `json:"query" validate:"max=200"`
		Sort       string   `json:"sort" validate:"omitempty,oneof=newest oldest price_asc price_desc"`
	}

	LikeRequest struct {
		CounterOfferListingID *uint64 `json:"counter_offer_listing_id" validate:"omitempty,gt=0"`
	}

	SwipeResponse struct {
		DecisionID string         `json:"decision_id,omitempty"`
		ListingID  uint64         `json:"listing_id"`
		Decision   string         `json:"decision"`
		Duplicate  bool           `json:"duplicate"`
		State      feed.FeedState `json:"state"`
	}

	UndoResponse struct {
		Undone    bool           `json:"undone"`
		ListingID uint64         `json:"listing_id,omitempty"`
		State     feed.FeedState `json:"state"`
	}
)

func NewFeedHandler(svc FeedService, timeout time.Duration) *FeedHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FeedHandler{
		validate:    validator.New(),
		feedService: svc,
		timeout:     timeout,
	}
}

func (r FilterRequest) toFilter() feed.FilterSpec {
	return feed.FilterSpec{
		Location:   r.Location,
		MinPrice:   r.MinPrice,
		MaxPrice:   r.MaxPrice,
		Categories: r.Categories,
		Conditions: r.Conditions,
		Kind:       feed.KindFilter(r.Kind),
		Query:      r.Query,
		Sort:       feed.SortOrder(r.Sort),
	}
}

func viewerID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}

func instanceID(c echo.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("instance"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (h *FeedHandler) bindFilter(c echo.Context) (feed.FilterSpec, error) {
	var req FilterRequest
	if err := c.Bind(&req); err != nil {
		return feed.FilterSpec{}, err
	}
	if err := h.validate.Struct(&req); err != nil {
		return feed.FilterSpec{}, err
	}
	return req.toFilter(), nil
}

// POST /api/v1/feed
func (h *FeedHandler) Open(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	filter, err := h.bindFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, err := h.feedService.Open(ctx, uid, filter)
	if err != nil {
		return feedError(c, err, &state)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(state))
}

// GET /api/v1/feed/:instance
func (h *FeedHandler) State(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	state, err := h.feedService.State(uid, id)
	if err != nil {
		return feedError(c, err, nil)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

// PUT /api/v1/feed/:instance/filter
func (h *FeedHandler) SetFilter(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	filter, err := h.bindFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, err := h.feedService.SetFilter(ctx, uid, id, filter)
	if err != nil {
		return feedError(c, err, &state)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

// POST /api/v1/feed/:instance/refresh
func (h *FeedHandler) Refresh(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, err := h.feedService.Refresh(ctx, uid, id)
	if err != nil {
		return feedError(c, err, &state)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

// POST /api/v1/feed/:instance/like
func (h *FeedHandler) Like(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	var req LikeRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	out, err := h.feedService.Like(ctx, uid, id, req.CounterOfferListingID)
	if err != nil {
		return feedError(c, err, &out.State)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(swipeResponse(out)))
}

// POST /api/v1/feed/:instance/dislike
func (h *FeedHandler) Dislike(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	out, err := h.feedService.Dislike(ctx, uid, id)
	if err != nil {
		return feedError(c, err, &out.State)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(swipeResponse(out)))
}

// POST /api/v1/feed/:instance/undo
func (h *FeedHandler) Undo(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	out, err := h.feedService.Undo(ctx, uid, id)
	if err != nil {
		return feedError(c, err, &out.State)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(UndoResponse{
		Undone:    out.Undone,
		ListingID: out.ListingID,
		State:     out.State,
	}))
}

// DELETE /api/v1/feed/:instance
func (h *FeedHandler) Close(c echo.Context) error {
	uid, ok := viewerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}
	id, ok := instanceID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid feed instance id"})
	}

	if err := h.feedService.Close(uid, id); err != nil {
		return feedError(c, err, nil)
	}

	return c.NoContent(http.StatusNoContent)
}

func swipeResponse(out feed.SwipeOutcome) SwipeResponse {
	return SwipeResponse{
		DecisionID: out.Result.DecisionID,
		ListingID:  out.Result.ListingID,
		Decision:   string(out.Result.Decision),
		Duplicate:  out.Result.Duplicate,
		State:      out.State,
	}
}
