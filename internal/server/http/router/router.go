package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/paperontime/orderdesk/internal/server/http/handlers"
	"github.com/paperontime/orderdesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.OrderDeskFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")
	api.GET("/rates", checkoutHandler.Rates)
	api.POST("/quote", checkoutHandler.Quote)
	api.POST("/checkout", checkoutHandler.CreateSession)
	api.POST("/payment/confirm", paymentHandler.Confirm)

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("/lookup", orderHandler.Lookup)
	orders.GET("/by-session/:sessionID", orderHandler.BySession)
	orders.PATCH("", orderHandler.Update)

	return engine
}
