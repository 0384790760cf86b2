package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/testimonioya/feedback-services/api/internal/admin/application"
	"github.com/testimonioya/feedback-services/api/internal/config"
	mongodoc "github.com/testimonioya/feedback-services/api/internal/infrastructure/mongo"
	adminhttp "github.com/testimonioya/feedback-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/testimonioya/feedback-services/api/internal/interfaces/http/common"
	publichttp "github.com/testimonioya/feedback-services/api/internal/interfaces/http/public"
	"github.com/testimonioya/feedback-services/api/internal/plan"
	publicapp "github.com/testimonioya/feedback-services/api/internal/public/application"
	"github.com/testimonioya/feedback-services/api/internal/token"
)

// Server is the composition root: it owns the HTTP server lifecycle and
// wires repositories, services and handlers together. No domain logic lives
// here.
type Server struct {
	logger              *log.Logger
	client              *mongo.Client
	database            *mongo.Database
	pings               *mongo.Collection
	failedNotifications *mongo.Collection
	location            *time.Location

	submissionService publicapp.SubmissionService
	recoveryService   publicapp.RecoveryService
	tokenManager      *token.Manager

	adminTenantService      adminapp.TenantService
	adminCaseService        adminapp.CaseService
	adminTestimonialService adminapp.TestimonialService
	adminEndpointService    adminapp.EndpointService

	jwtConfigs           []config.JWTConfig
	jwtAudience          string
	httpClient           *http.Client
	messengerEndpoint    string
	messengerDestination string
	recoveryBaseURL      string
	dashboardBaseURL     string
	addr                 string
	allowedOrigins       []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run starts the HTTP server, assembling routes and middleware for the
// public and dashboard surfaces.
func (s *Server) Run() error {
	if err := s.ensureSamplePing(context.Background()); err != nil {
		s.logger.Printf("failed to prepare sample ping document: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Get("/ping", s.pingHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:               s.logger,
		Submissions:          s.submissionService,
		Recovery:             s.recoveryService,
		Tokens:               s.tokenManager,
		HTTPClient:           s.httpClient,
		MessengerEndpoint:    s.messengerEndpoint,
		MessengerDestination: s.messengerDestination,
		RecoveryBaseURL:      s.recoveryBaseURL,
		DashboardBaseURL:     s.dashboardBaseURL,
		FailedNotifications:  s.failedNotifications,
	})
	publicHandler.Register(router)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:       s.logger,
		Tenants:      s.adminTenantService,
		Cases:        s.adminCaseService,
		Testimonials: s.adminTestimonialService,
		Endpoints:    s.adminEndpointService,
		Recovery:     s.recoveryService,
		Notifier:     publicHandler,
	})
	router.Route("/dashboard", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

func normaliseBaseURL(input string) string {
	trimmed := strings.TrimSpace(input)
	return strings.TrimRight(trimmed, "/")
}

// withCORS returns a middleware adding CORS headers for allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler answers monitoring probes with the infrastructure state
// only, never domain state.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware validates the session JWT from the Authorization header and
// attaches the authenticated user to the request context. Only the dashboard
// subtree uses it; the public surface stays anonymous.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "a Bearer token is required"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "empty access token"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		user := authenticatedUser{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken tries each configured JWT issuer in order, verifying
// signature, issuer and audience. Tokens matching none of the configs fail
// authentication.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("authentication is not configured")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !parsed.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("invalid access token")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type pingDocument struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// pingHandler returns the latest record of the pings collection, a cheap way
// to confirm the app can reach Mongo and that seeding ran.
func (s *Server) pingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		var doc pingDocument
		err := s.pings.FindOne(ctx, bson.D{}, opts).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{
				"status":  "not_found",
				"message": "no documents in the ping collection",
			})
			return
		}
		if err != nil {
			s.logger.Printf("failed to fetch ping document: %v", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to fetch ping document",
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]any{
			"message":   doc.Message,
			"createdAt": doc.CreatedAt.In(s.location),
			"id":        doc.ID.Hex(),
		})
	}
}

// ensureSamplePing guarantees the pings collection holds at least one
// document so /ping never answers 404 on a fresh environment.
func (s *Server) ensureSamplePing(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.pings.CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.pings.InsertOne(ctx, bson.M{
		"message":   "pong",
		"createdAt": time.Now().In(s.location),
	})
	return err
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("failed to encode JSON response: %v", err)
	}
}

// shutdown disconnects the MongoDB client with a timeout so process exit
// does not leak connections.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("error while disconnecting from MongoDB: %v", err)
	}
}

// waitForShutdown watches ListenAndServe and OS signals to drive a graceful
// shutdown.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("server exited abnormally: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("received signal %s, starting shutdown", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("error during server shutdown: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New takes Config and a Mongo client and assembles application services and
// handlers into a Server. This is the single place dependencies resolve.
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
		cfg.ServerLog.Printf("failed to load timezone %s: %v, falling back to UTC", cfg.Timezone, err)
	}

	endpoint := normaliseBaseURL(cfg.MessengerEndpoint)
	if endpoint == "" {
		endpoint = "http://messenger-gateway:3000"
	}

	srv := &Server{
		logger:               cfg.ServerLog,
		client:               client,
		database:             client.Database(cfg.MongoDatabase),
		location:             loc,
		jwtConfigs:           append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:          cfg.JWTAudience,
		httpClient:           &http.Client{Timeout: cfg.MessengerTimeout},
		messengerEndpoint:    endpoint,
		messengerDestination: cfg.MessengerDestination,
		recoveryBaseURL:      normaliseBaseURL(cfg.RecoveryBaseURL),
		dashboardBaseURL:     normaliseBaseURL(cfg.DashboardBaseURL),
		addr:                 cfg.Addr,
		allowedOrigins:       append([]string(nil), cfg.AllowedOrigins...),
	}
	srv.pings = srv.database.Collection(cfg.PingCollection)
	srv.failedNotifications = srv.database.Collection(cfg.FailedNotificationCollection)

	profileRepo := mongodoc.NewProfileRepository(srv.database, cfg.ProfileCollection)
	usageCounter := mongodoc.NewUsageCounter(srv.database, cfg.TestimonialCollection, cfg.ResponseCollection, cfg.EndpointCollection, cfg.TenantCollection)
	quotaGuard := plan.NewGuard(profileRepo, usageCounter, loc, cfg.ServerLog)

	srv.tokenManager = token.NewManager(cfg.ReplyTokenSecret, cfg.ReplyTokenTTL)

	tenantRepo := mongodoc.NewTenantRepository(srv.database, cfg.TenantCollection)
	endpointRepo := mongodoc.NewEndpointRepository(srv.database, cfg.EndpointCollection)
	submissionRepo := mongodoc.NewSubmissionRepository(client, srv.database, cfg.ResponseCollection, cfg.TestimonialCollection, cfg.RecoveryCaseCollection, cfg.EndpointCollection, cfg.MongoUseTransactions)
	caseRepo := mongodoc.NewRecoveryCaseRepository(srv.database, cfg.RecoveryCaseCollection)

	srv.submissionService = publicapp.NewSubmissionService(tenantRepo, endpointRepo, submissionRepo, profileRepo, quotaGuard, cfg.ServerLog)
	srv.recoveryService = publicapp.NewRecoveryService(caseRepo, tenantRepo, profileRepo, srv.tokenManager, cfg.ServerLog)

	adminTenantRepo := mongodoc.NewAdminTenantRepository(srv.database, cfg.TenantCollection)
	adminCaseRepo := mongodoc.NewAdminCaseRepository(srv.database, cfg.RecoveryCaseCollection, cfg.ResponseCollection)
	adminTestimonialRepo := mongodoc.NewAdminTestimonialRepository(srv.database, cfg.TestimonialCollection)
	adminEndpointRepo := mongodoc.NewAdminEndpointRepository(srv.database, cfg.EndpointCollection)

	srv.adminTenantService = adminapp.NewTenantService(adminTenantRepo, profileRepo, quotaGuard)
	srv.adminCaseService = adminapp.NewCaseService(adminCaseRepo, adminTenantRepo)
	srv.adminTestimonialService = adminapp.NewTestimonialService(adminTestimonialRepo, adminTenantRepo)
	srv.adminEndpointService = adminapp.NewEndpointService(adminEndpointRepo, adminTenantRepo, profileRepo, quotaGuard)

	return srv
}
