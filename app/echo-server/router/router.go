package router

import (
	"swapMarket/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupFeedRoutes(api *echo.Group, handler *rest.FeedHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	feeds := api.Group("/feed", authRequired)

	feeds.POST("", handler.Open)
	feeds.GET("/:instance", handler.State)
	feeds.DELETE("/:instance", handler.Close)
	feeds.PUT("/:instance/filter", handler.SetFilter)
	feeds.POST("/:instance/refresh", handler.Refresh)
	feeds.POST("/:instance/like", handler.Like)
	feeds.POST("/:instance/dislike", handler.Dislike)
	feeds.POST("/:instance/undo", handler.Undo)

	feeds.GET("/:instance/debug", handler.Debug, adminOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:id", handler.GetCategoryByID)
}
