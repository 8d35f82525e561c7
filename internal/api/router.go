package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/api/middleware"
	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/cache"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/observability"
	"github.com/lzjever/prodcat/internal/store"
	"github.com/lzjever/prodcat/internal/upload"
)

// Store is the part of store.Queries the handlers use.
type Store interface {
	ListActiveProducts(ctx context.Context) ([]store.CatalogProduct, error)
	ListActiveProductsByName(ctx context.Context) ([]store.CatalogProduct, error)
	GetProduct(ctx context.Context, id int64) (store.CatalogProduct, error)
	CreateProduct(ctx context.Context, arg store.CreateProductParams) (store.CatalogProduct, error)
	UpdateProduct(ctx context.Context, arg store.UpdateProductParams) (store.CatalogProduct, error)
	SoftDeleteProduct(ctx context.Context, id int64) error
	SetProductDisplayOrder(ctx context.Context, arg store.SetProductDisplayOrderParams) error

	ListDocumentsByProducts(ctx context.Context, productIDs []int64) ([]store.CatalogDocument, error)
	ListDocuments(ctx context.Context) ([]store.ListDocumentsRow, error)
	GetDocument(ctx context.Context, id int64) (store.CatalogDocument, error)
	CreateDocument(ctx context.Context, arg store.CreateDocumentParams) (store.CatalogDocument, error)
	DeleteDocument(ctx context.Context, id int64) error
	IncrementDownloadCount(ctx context.Context, id int64) (store.CatalogDocument, error)

	ListUsers(ctx context.Context) ([]store.CatalogUser, error)
	GetUser(ctx context.Context, id int64) (store.CatalogUser, error)
	GetUserByUsername(ctx context.Context, username string) (store.CatalogUser, error)
	CreateUser(ctx context.Context, arg store.CreateUserParams) (store.CatalogUser, error)
	UpdateUser(ctx context.Context, arg store.UpdateUserParams) (store.CatalogUser, error)

	ListSiteAssets(ctx context.Context) ([]store.CatalogSiteAsset, error)
	ListAuditLogsSince(ctx context.Context, since time.Time) ([]store.CatalogAuditLog, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type API struct {
	db      pinger
	queries Store
	// inTx runs fn against a Store bound to a single transaction.
	inTx    func(ctx context.Context, fn func(Store) error) error
	audit   audit.Auditor
	logs    *audit.Reader
	files   upload.Storage
	content *cache.ContentCache
	cfg     Config
	log     *zap.Logger
	now     func() time.Time
}

func NewAPI(pool *pgxpool.Pool, rec audit.Auditor, files upload.Storage, content *cache.ContentCache, cfg Config, log *zap.Logger) *API {
	q := store.New(pool)
	return &API{
		db:      pool,
		queries: q,
		inTx: func(ctx context.Context, fn func(Store) error) error {
			return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
				return fn(q.WithTx(tx))
			})
		},
		audit:   rec,
		logs:    audit.NewReader(q, log.Named("audit")),
		files:   files,
		content: content,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recoverer(a.log))
	r.Use(middleware.Logger)

	// Health endpoints
	r.Get("/healthz", a.HealthHandler)
	r.Get("/readyz", a.ReadyHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json", "multipart/form-data"))

		// Products
		r.Get("/products", a.ListProducts)
		r.Post("/products", a.CreateProduct)
		r.Post("/products/reorder", a.ReorderProducts)
		r.Put("/products/{id}", a.UpdateProduct)
		r.Delete("/products/{id}", a.DeleteProduct)
		r.Post("/products/{id}/documents", a.AddDocument)

		// Documents
		r.Get("/documents", a.ListDocuments)
		r.Delete("/documents/{id}", a.DeleteDocument)
		r.Post("/documents/{id}/track", a.TrackDownload)

		// Users
		r.Get("/users", a.ListUsers)
		r.Post("/users", a.CreateUser)
		r.Put("/users/{id}", a.UpdateUser)
		r.Delete("/users/{id}", a.DeleteUser)

		// Auth
		r.Post("/auth/login", a.Login)
		r.Post("/auth/logout", a.Logout)

		r.Get("/system-logs", a.ListSystemLogs)
		r.Get("/content", a.GetContent)
		r.Post("/uploads", a.Upload)
		r.Get("/debug/env", a.DebugEnv)
	})

	origins := a.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(r)
}

// record writes an audit event. The outcome never affects the response.
func (a *API) record(r *http.Request, action core.Action, entity core.Entity, entityID, details any, actor string) {
	a.audit.Record(r.Context(), action, entity, entityID, details, actor)
}

// invalidateContent drops the cached /api/content body after a product change.
func (a *API) invalidateContent(ctx context.Context) {
	a.content.Invalidate(context.WithoutCancel(ctx))
}

func (a *API) reqLog(r *http.Request) *zap.Logger {
	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		route = rctx.RoutePattern()
	}
	return observability.RequestLogger(a.log, middleware.GetRequestID(r), route)
}
