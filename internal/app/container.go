package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/appointment-booking-backend/internal/api"
	"github.com/nekogravitycat/appointment-booking-backend/internal/booking"
	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	CatalogSource catalog.Source
	Location      *time.Location
	Logger        *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	Catalog        catalog.Catalog
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := cfg.CatalogSource
	if src == nil {
		src = catalog.DefaultSource()
	}

	// Catalog Module
	cat, err := catalog.New(ctx, src, cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	// Booking Module
	bookingRepo := booking.NewMemoryRepository()
	bookingService := booking.NewService(bookingRepo, cat, logger)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Catalog:        cat,
		BookingService: bookingService,
		Logger:         logger,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		Catalog:        cat,
		BookingService: bookingService,
	}, nil
}
