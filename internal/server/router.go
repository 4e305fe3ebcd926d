package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/auth"
	"github.com/codebyjv/PortaldeRastreio/internal/config"
	"github.com/codebyjv/PortaldeRastreio/internal/handlers"
	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/middleware"
	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/notify"
	"github.com/codebyjv/PortaldeRastreio/internal/services"
	"github.com/codebyjv/PortaldeRastreio/internal/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	store := storage.NewLocalStore(cfg.UploadDir, cfg.BaseURL)
	audit := services.NewAuditService(db)
	orderSvc := services.NewOrderService(db, audit)
	docSvc := services.NewDocumentService(db, store, audit)
	ipemSvc := services.NewIpemService(db)
	rbcSvc := services.NewRbcService(db, audit)
	metricsSvc := services.NewMetricsService(db)
	engine := notify.NewEngine(db)

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Perform a lightweight DB check (SELECT 1) – ignore detailed errors in body
		if err := db.Exec("SELECT 1").Error; err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, werr := w.Write([]byte(`{"status":"degraded"}`)); werr != nil {
				_ = werr
			}
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Uploaded documents are served straight from disk.
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	// Public customer lookup. No session required.
	oh := handlers.NewOrderHandler(db, orderSvc)
	mux.Handle("/api/orders/lookup", http.HandlerFunc(oh.Lookup))

	// Admin order endpoints. List/Create via /api/orders; the rest as verb paths.
	mux.Handle("/api/orders", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			oh.List(w, r)
		case http.MethodPost:
			oh.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))
	mux.Handle("/api/orders/status", protect(postOnly(oh.UpdateStatus)))
	mux.Handle("/api/orders/update", protect(postOnly(oh.Update)))
	mux.Handle("/api/orders/delete", protect(postOnly(oh.Delete)))

	// Documents. Listing is public so customers can fetch their papers.
	dh := handlers.NewDocumentHandler(db, docSvc)
	mux.Handle("/api/documents", auth.Middleware(http.HandlerFunc(dh.List)))
	mux.Handle("/api/documents/upload", protect(postOnly(dh.Upload)))
	mux.Handle("/api/documents/archive", protect(postOnly(dh.Archive)))
	mux.Handle("/api/documents/delete", protect(postOnly(dh.Delete)))

	// ERP import
	imh := handlers.NewImportHandler(db, orderSvc)
	mux.Handle("/api/import/preview", protect(postOnly(imh.Preview)))
	mux.Handle("/api/import/commit", protect(postOnly(imh.Commit)))

	// Notifications
	nh := handlers.NewNotificationHandler(db, engine)
	mux.Handle("/api/notifications/unread", protect(http.HandlerFunc(nh.Unread)))
	mux.Handle("/api/notifications/read", protect(postOnly(nh.MarkRead)))
	mux.Handle("/api/notifications/read-all", protect(postOnly(nh.MarkAllRead)))
	mux.Handle("/api/notifications/check", protect(postOnly(nh.Check)))

	// IPEM calibration batches
	iph := handlers.NewIpemHandler(ipemSvc)
	mux.Handle("/api/ipem/pending", protect(http.HandlerFunc(iph.Pending)))
	mux.Handle("/api/ipem/assessments", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			iph.Assessments(w, r)
		case http.MethodPost:
			iph.CreateAssessment(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))
	mux.Handle("/api/ipem/assessments/items", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			iph.AssessmentItems(w, r)
		case http.MethodPost:
			iph.AddItems(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))
	mux.Handle("/api/ipem/assessments/items/remove", protect(postOnly(iph.RemoveItem)))

	// RBC proposals
	rh := handlers.NewRbcHandler(db, rbcSvc)
	mux.Handle("/api/rbc/pending", protect(http.HandlerFunc(rh.Pending)))
	mux.Handle("/api/rbc/proposal/send", protect(postOnly(rh.MarkSent)))
	mux.Handle("/api/rbc/proposal/approve", protect(postOnly(rh.Approve)))

	// Audit trail and dashboard
	lh := handlers.NewLogHandler(audit)
	mux.Handle("/api/logs", protect(http.HandlerFunc(lh.List)))
	mh := handlers.NewDashboardHandler(metricsSvc)
	mux.Handle("/api/dashboard/metrics", protect(http.HandlerFunc(mh.Metrics)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Portal de Rastreio API")); werr != nil {
			_ = werr
		}
	})
	//revive:enable:unused-parameter

	return middleware.Prometheus(withRecover(withLogging(mux)))
}

// protect wraps admin endpoints: session parsing plus a hard auth requirement.
func protect(next http.Handler) http.Handler {
	return auth.Middleware(auth.RequireAuth(next))
}

func postOnly(fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		fn(w, r)
	})
}

// Simple middleware logging & recovery kept private to this package to avoid duplication.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
