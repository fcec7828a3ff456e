package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopdesk/shopdesk-go/internal/config"
	"github.com/shopdesk/shopdesk-go/internal/cookie"
	"github.com/shopdesk/shopdesk-go/internal/crypto"
	"github.com/shopdesk/shopdesk-go/internal/handler"
	"github.com/shopdesk/shopdesk-go/internal/middleware"
	"github.com/shopdesk/shopdesk-go/internal/repository"
	"github.com/shopdesk/shopdesk-go/internal/service"
)

const tokenIssuer = "shopdesk"

func newRouter(ctx context.Context, cfg config.Config, db *sql.DB, logger *slog.Logger) http.Handler {
	tokens := crypto.NewTokenService(tokenIssuer,
		crypto.TokenConfig{Secret: cfg.AuthSecret, TTL: cfg.AuthTTL},
		crypto.TokenConfig{Secret: cfg.RefreshSecret, TTL: cfg.RefreshTTL},
	)
	cookies := cookie.New(cookie.Config{
		AccessName:  cfg.AuthCookieName,
		RefreshName: cfg.RefreshCookieName,
		AccessTTL:   cfg.AuthTTL,
		RefreshTTL:  cfg.RefreshTTL,
		Secret:      cfg.CookieSecret,
		Domain:      cfg.CookieDomain,
		Secure:      cfg.IsProduction(),
	})
	hasher := crypto.NewHasher(crypto.DefaultHashParams())

	owners := repository.NewOwnershipRepository(db)

	authService := service.NewAuthService(repository.NewUserRepository(db), hasher, tokens)
	authHandler := handler.NewAuthHandler(authService, cookies)

	storeHandler := handler.NewStoreHandler(service.NewStoreService(repository.NewStoreRepository(db)))
	productHandler := handler.NewProductHandler(service.NewProductService(repository.NewProductRepository(db)))
	collectionHandler := handler.NewCollectionHandler(service.NewCollectionService(repository.NewCollectionRepository(db)))
	customerHandler := handler.NewCustomerHandler(service.NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewOrderRepository(db),
	))

	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
			r.Post("/auth/signin", authHandler.HandleSignin)
			r.Post("/auth/signup", authHandler.HandleSignup)
			r.With(middleware.AuthenticateRefresh(tokens, cookies)).Post("/auth/refresh", authHandler.HandleRefresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, cookies))

			r.Post("/auth/signout", authHandler.HandleSignout)
			r.Get("/auth/me", authHandler.HandleMe)
			r.Patch("/auth/me", authHandler.HandleUpdateProfile)
			r.Post("/auth/password", authHandler.HandleChangePassword)

			r.Get("/stores", storeHandler.HandleList)
			r.Post("/stores", storeHandler.HandleCreate)

			r.Route("/stores/{storeId}", func(r chi.Router) {
				r.Use(middleware.Guard(middleware.OwnsStore(owners)))

				r.Get("/", storeHandler.HandleGet)
				r.Patch("/", storeHandler.HandleUpdate)
				r.Get("/products", productHandler.HandleList)
				r.Post("/products", productHandler.HandleCreate)
				r.Get("/collections", collectionHandler.HandleList)
				r.Post("/collections", collectionHandler.HandleCreate)
				r.Get("/customers", customerHandler.HandleListCustomers)
				r.Get("/orders", customerHandler.HandleListOrders)
			})

			r.With(middleware.Guard(middleware.OwnsAllProducts(owners))).Delete("/products", productHandler.HandleDeleteMany)
			r.With(middleware.Guard(middleware.OwnsProduct(owners))).Get("/products/{productId}", productHandler.HandleGet)
			r.With(middleware.Guard(middleware.OwnsProduct(owners))).Patch("/products/{productId}", productHandler.HandleUpdate)
			r.With(middleware.Guard(middleware.OwnsCollection(owners))).Get("/collections/{collectionId}", collectionHandler.HandleGet)
			r.With(middleware.Guard(middleware.OwnsCustomer(owners))).Get("/customers/{customerId}", customerHandler.HandleGetCustomer)
			r.With(middleware.Guard(middleware.OwnsOrder(owners))).Get("/orders/{orderId}", customerHandler.HandleGetOrder)
		})
	})

	return r
}
