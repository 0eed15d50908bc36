package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	adapthttp "weightlog/internal/adapter/http"
	"weightlog/internal/adapter/local"
	"weightlog/internal/adapter/postgres"
	"weightlog/internal/app"
	"weightlog/internal/config"
	"weightlog/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		store       domain.Store
		userRepo    domain.UserRepository
		sessionRepo domain.SessionRepository
	)

	switch cfg.ResolveBackend() {
	case config.BackendPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer func() { _ = db.Close() }()
		store = db
		userRepo = postgres.NewUserRepo(db)
		sessionRepo = postgres.NewSessionRepo(db)
		log.Printf("using postgres backend")

	default:
		if cfg.DatabaseURL == "" && cfg.Backend != config.BackendLocal {
			log.Printf("DATABASE_URL not set, falling back to local backend")
		}
		ls, err := local.New(cfg.DataFile)
		if err != nil {
			log.Fatalf("local store: %v", err)
		}
		defer func() { _ = ls.Close() }()
		store = ls
		auth := local.NewAuthStore()
		userRepo = auth
		sessionRepo = auth.Sessions()
		log.Printf("using local backend at %s", cfg.DataFile)
	}

	weightSvc := app.NewWeightService(store)
	authSvc := app.NewAuthService(userRepo, sessionRepo)

	oidcCfg, err := buildOIDC(cfg)
	if err != nil {
		log.Fatalf("oidc: %v", err)
	}

	h := adapthttp.New(weightSvc, authSvc, oidcCfg, cfg.WebDir, cfg.DisableAuth).Handler()
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func buildOIDC(cfg config.Config) (adapthttp.OIDCConfig, error) {
	if !cfg.SSOEnabled() {
		return adapthttp.OIDCConfig{}, nil
	}

	provider, err := oidc.NewProvider(context.Background(), cfg.OIDCIssuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}

	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.OIDCRedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}
