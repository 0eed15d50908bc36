// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"weightlog/internal/app"
)

// OIDCConfig carries the optional SSO provider wiring.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	weight      *app.WeightService
	authSvc     *app.AuthService
	oidcConfig  OIDCConfig
	webDir      string
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(ws *app.WeightService, as *app.AuthService, oidcCfg OIDCConfig, webDir string, disableAuth bool) *Server {
	return &Server{weight: ws, authSvc: as, oidcConfig: oidcCfg, webDir: webDir, disableAuth: disableAuth}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	weights := http.NewServeMux()
	weights.HandleFunc("GET /api/weights", s.handleListWeights)
	weights.HandleFunc("POST /api/weights", s.handleCreateWeight)
	weights.HandleFunc("GET /api/weights/series", s.handleWeightSeries)
	weights.HandleFunc("PATCH /api/weights/{id}", s.handleUpdateWeight)
	weights.HandleFunc("DELETE /api/weights/{id}", s.handleDeleteWeight)
	protected := s.authMiddleware(weights)

	root := http.NewServeMux()
	root.Handle("/api/weights", protected)
	root.Handle("/api/weights/", protected)
	root.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	root.HandleFunc("POST /api/auth/login", s.handleLogin)
	root.HandleFunc("POST /api/auth/logout", s.handleLogout)
	root.HandleFunc("POST /api/auth/setup", s.handleSetupUser)
	root.HandleFunc("GET /api/auth/config", s.handleConfig)
	root.HandleFunc("GET /api/auth/sso/login", s.handleSSOLogin)
	root.HandleFunc("GET /api/auth/sso/callback", s.handleSSOCallback)
	root.Handle("/", spaFromDisk(s.webDir))

	return s.loggingMiddleware(withNoCache(root))
}
