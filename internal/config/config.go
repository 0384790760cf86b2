package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	MongoUseTransactions         bool
	PingCollection               string
	ProfileCollection            string
	TenantCollection             string
	EndpointCollection           string
	ResponseCollection           string
	TestimonialCollection        string
	RecoveryCaseCollection       string
	FailedNotificationCollection string
	Timeout                      time.Duration
	Timezone                     string
	ServerLog                    *log.Logger
	JWTConfigs                   []JWTConfig
	JWTAudience                  string
	ReplyTokenSecret             []byte
	ReplyTokenTTL                time.Duration
	MessengerEndpoint            string
	MessengerDestination         string
	MessengerTimeout             time.Duration
	RecoveryBaseURL              string
	DashboardBaseURL             string
	AllowedOrigins               []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	messengerEndpoint := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL"))
	if messengerEndpoint == "" {
		messengerEndpoint = "http://messenger-gateway:3000"
	}
	messengerDestination := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_DESTINATION"))

	messengerTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			messengerTimeout = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	replyTokenSecret := strings.TrimSpace(os.Getenv("REPLY_TOKEN_SECRET"))
	if replyTokenSecret == "" {
		log.Fatal("REPLY_TOKEN_SECRET must be configured")
	}
	replyTokenTTL := time.Duration(0)
	if raw := strings.TrimSpace(os.Getenv("REPLY_TOKEN_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			replyTokenTTL = parsed
		}
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "testimonioya-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_LEGACY_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_LEGACY_JWT_ISSUER", "supabase"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_JWT_SECRET or AUTH_LEGACY_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	useTransactions := strings.EqualFold(envOrDefault("MONGO_USE_TRANSACTIONS", "true"), "true")

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "testimonioya"),
		MongoUseTransactions:         useTransactions,
		PingCollection:               envOrDefault("PING_COLLECTION", "pings"),
		ProfileCollection:            envOrDefault("PROFILE_COLLECTION", "profiles"),
		TenantCollection:             envOrDefault("TENANT_COLLECTION", "tenants"),
		EndpointCollection:           envOrDefault("ENDPOINT_COLLECTION", "collection_endpoints"),
		ResponseCollection:           envOrDefault("RESPONSE_COLLECTION", "nps_responses"),
		TestimonialCollection:        envOrDefault("TESTIMONIAL_COLLECTION", "testimonials"),
		RecoveryCaseCollection:       envOrDefault("RECOVERY_CASE_COLLECTION", "recovery_cases"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      timeout,
		Timezone:                     envOrDefault("TIMEZONE", "America/Mexico_City"),
		ServerLog:                    log.New(os.Stdout, "[testimonioya-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:                   jwtConfigs,
		JWTAudience:                  jwtAudience,
		ReplyTokenSecret:             []byte(replyTokenSecret),
		ReplyTokenTTL:                replyTokenTTL,
		MessengerEndpoint:            messengerEndpoint,
		MessengerDestination:         messengerDestination,
		MessengerTimeout:             messengerTimeout,
		RecoveryBaseURL:              strings.TrimSpace(os.Getenv("RECOVERY_BASE_URL")),
		DashboardBaseURL:             strings.TrimSpace(os.Getenv("DASHBOARD_BASE_URL")),
		AllowedOrigins:               allowedOrigins,
	}

	cfg.ServerLog.Printf("loaded config: messengerEndpoint=%q destination=%q recoveryBaseURL=%q", messengerEndpoint, messengerDestination, cfg.RecoveryBaseURL)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
