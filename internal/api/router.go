package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/appointment-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/appointment-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/appointment-booking-backend/internal/catalog"
	catalogHttp "github.com/nekogravitycat/appointment-booking-backend/internal/catalog/http"
	"github.com/nekogravitycat/appointment-booking-backend/internal/pkg/response"
)

// Config holds the dependencies needed to build the router.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Catalog        catalog.Catalog
	BookingService booking.Service
	Logger         *zap.Logger
}

var devOrigins = []string{
	"http://localhost:3000", // Chat UI
	"http://localhost:8081", // Swagger
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, logging, recovery) and registering routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: one structured line per request.
	// - Recovery: captures panics and answers with the error envelope.
	r.Use(RequestLogger(logger), Recovery(logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	origins := devOrigins
	if cfg.IsProduction {
		origins = splitOrigins(cfg.ProdOrigins)
	}
	if len(origins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = origins
		config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Type"}
		r.Use(cors.New(config))
	}

	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, "route not found")
	})

	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"ok": true})
	})

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	catalogHandler := catalogHttp.NewHandler(cfg.Catalog)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		catalogHttp.RegisterRoutes(v1, catalogHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler)
	}

	return r
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
