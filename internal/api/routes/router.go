package routes

import (
	"net/http"

	"github.com/bizlink/directory-backend/internal/api/handlers"
	"github.com/bizlink/directory-backend/internal/api/middleware"
	"github.com/bizlink/directory-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	businessHandler    *handlers.BusinessHandler
	importHandler      *handlers.ImportHandler
	uploadHandler      *handlers.UploadHandler
	profileCardHandler *handlers.ProfileCardHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics

	jwtSecret      string
	allowedOrigins []string
}

// NewRouter creates a new router
func NewRouter(
	businessHandler *handlers.BusinessHandler,
	importHandler *handlers.ImportHandler,
	uploadHandler *handlers.UploadHandler,
	profileCardHandler *handlers.ProfileCardHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	jwtSecret string,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		businessHandler:    businessHandler,
		importHandler:      importHandler,
		uploadHandler:      uploadHandler,
		profileCardHandler: profileCardHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,

		jwtSecret:      jwtSecret,
		allowedOrigins: allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	authRequired := middleware.AuthMiddleware(r.jwtSecret)

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Public directory endpoints
	r.mux.HandleFunc("GET /api/businesses", r.businessHandler.ListBusinesses)
	r.mux.HandleFunc("GET /api/businesses/recent", r.businessHandler.RecentBusinesses)
	r.mux.HandleFunc("GET /api/businesses/{id}", r.businessHandler.GetBusiness)
	r.mux.HandleFunc("GET /api/businesses/{id}/qr", r.profileCardHandler.GetQRCode)

	// Admin endpoints
	r.mux.Handle("POST /api/businesses", authRequired(http.HandlerFunc(r.businessHandler.CreateBusiness)))
	r.mux.Handle("PUT /api/businesses/{id}", authRequired(http.HandlerFunc(r.businessHandler.UpdateBusiness)))
	r.mux.Handle("DELETE /api/businesses/{id}", authRequired(http.HandlerFunc(r.businessHandler.DeleteBusiness)))

	// Bulk import endpoints
	r.mux.Handle("POST /api/businesses/import", authRequired(http.HandlerFunc(r.importHandler.ImportBusinesses)))
	r.mux.HandleFunc("GET /api/businesses/import/sample", r.importHandler.DownloadSample)

	// Photo upload endpoint
	r.mux.Handle("POST /api/upload", authRequired(http.HandlerFunc(r.uploadHandler.UploadPhoto)))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
