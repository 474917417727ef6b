package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/falck5561-ux/miss-donitas-order-engine/internal/domain"
	"github.com/falck5561-ux/miss-donitas-order-engine/internal/session"
)

// CatalogClient is the slice of the catalog gateway the handlers need.
type CatalogClient interface {
	GetItem(ctx context.Context, id string) (domain.Item, error)
}

// OrderLookup loads previously submitted orders, for receipt reprints and
// reconciliation at the terminal.
type OrderLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// Deps carries the collaborators the routes are wired to.
type Deps struct {
	Sessions *session.Store
	Catalog  CatalogClient
	Orders   OrderLookup
}

// buildRouter wires routes for the ordering API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	if deps.Sessions == nil {
		return nil, errors.New("session store required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(allowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = allowedOrigins
		corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.DELETE("/:id", h.deleteSession)

		sessions.GET("/:id/ticket", h.getTicket)
		sessions.POST("/:id/ticket/items", h.addItem)
		sessions.POST("/:id/ticket/lines/:lineId/increment", h.incrementLine)
		sessions.POST("/:id/ticket/lines/:lineId/decrement", h.decrementLine)
		sessions.DELETE("/:id/ticket/lines/:lineId", h.removeLine)
		sessions.DELETE("/:id/ticket", h.clearTicket)
		sessions.POST("/:id/ticket/reward", h.applyReward)

		sessions.GET("/:id/checkout", h.getCheckout)
		sessions.POST("/:id/checkout", h.beginCheckout)
		sessions.POST("/:id/checkout/delivery", h.chooseDelivery)
		sessions.POST("/:id/checkout/address", h.setAddress)
		sessions.POST("/:id/checkout/address/confirm", h.confirmAddress)
		sessions.POST("/:id/checkout/payment", h.choosePayment)
		sessions.POST("/:id/checkout/confirm", h.confirmPayment)
		sessions.POST("/:id/checkout/retry", h.retrySubmission)
		sessions.DELETE("/:id/checkout", h.cancelCheckout)
	}

	if deps.Orders != nil {
		router.GET("/orders/:id", h.getOrder)
	}

	return router, nil
}
