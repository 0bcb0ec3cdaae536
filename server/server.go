package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-backoffice-session/internal/config"
	"github.com/jrsteele09/go-backoffice-session/token/jwt"
	"github.com/jrsteele09/go-backoffice-session/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server is a development implementation of the back-office auth API:
// password grant with optional TOTP, profile lookup, 2FA enrolment and
// admin-only registration.
type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	accounts users.AccountRepo
	tokens   *jwt.Creator
	issuer   string // TOTP issuer shown by authenticator apps
	log      zerolog.Logger
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = l
	}
}

func New(cfg config.Config, accounts users.AccountRepo, options ...ServerOption) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("[Server New] config is required")
	}
	if accounts == nil {
		return nil, fmt.Errorf("[Server New] accounts repo is required")
	}

	tokens, err := jwt.NewCreator(cfg.GetJWTSecret(), cfg.GetAccessTokenExpiry())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token creator: %w", err)
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		accounts: accounts,
		tokens:   tokens,
		issuer:   cfg.GetTOTPIssuer(),
		log:      log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.InitialiseSystem(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}
