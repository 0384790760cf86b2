package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	tenantCount     int
	responseCount   int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	profiles            string
	tenants             string
	endpoints           string
	responses           string
	testimonials        string
	recoveryCases       string
	failedNotifications string
}

type profileDocument struct {
	ID   string `bson:"_id"`
	Plan string `bson:"plan"`
}

type tenantDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	UserID              string             `bson:"userId"`
	Name                string             `bson:"name"`
	Slug                string             `bson:"slug"`
	BrandColor          string             `bson:"brandColor,omitempty"`
	DefaultLanguage     string             `bson:"defaultLanguage,omitempty"`
	WelcomeMessage      string             `bson:"welcomeMessage,omitempty"`
	GoogleReviewsURL    string             `bson:"googleReviewsUrl,omitempty"`
	GoogleNPSThreshold  int                `bson:"googleNpsThreshold,omitempty"`
	GoogleStarThreshold int                `bson:"googleStarThreshold,omitempty"`
	UseUnifiedFlow      bool               `bson:"useUnifiedFlow,omitempty"`
	UseRecoveryFlow     bool               `bson:"useRecoveryFlow,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

type endpointDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	TenantID          primitive.ObjectID `bson:"tenantId"`
	Slug              string             `bson:"slug"`
	Name              string             `bson:"name"`
	Kind              string             `bson:"kind"`
	Active            bool               `bson:"active"`
	Views             int                `bson:"viewsCount"`
	Submissions       int                `bson:"submissionsCount"`
	PromoterThreshold int                `bson:"npsThresholdPromoter,omitempty"`
	PassiveThreshold  int                `bson:"npsThresholdPassive,omitempty"`
	AskGoogleReview   bool               `bson:"askGoogleReview,omitempty"`
	GoogleReviewsURL  string             `bson:"googleReviewsUrl,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

type responseDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	TenantID      primitive.ObjectID `bson:"tenantId"`
	EndpointID    primitive.ObjectID `bson:"endpointId"`
	Score         int                `bson:"score"`
	Category      string             `bson:"category"`
	Feedback      string             `bson:"feedback,omitempty"`
	CustomerName  string             `bson:"customerName,omitempty"`
	CustomerEmail string             `bson:"customerEmail,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

type testimonialDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	TenantID     primitive.ObjectID `bson:"tenantId"`
	CustomerName string             `bson:"customerName"`
	Text         string             `bson:"textContent"`
	Rating       int                `bson:"rating"`
	Status       string             `bson:"status"`
	Source       string             `bson:"source"`
	Featured     bool               `bson:"isFeatured,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

type messageDocument struct {
	Role      string    `bson:"role"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"createdAt"`
}

type recoveryCaseDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	TenantID      primitive.ObjectID `bson:"tenantId"`
	ResponseID    primitive.ObjectID `bson:"responseId"`
	Status        string             `bson:"status"`
	CustomerName  string             `bson:"customerName,omitempty"`
	CustomerEmail string             `bson:"customerEmail,omitempty"`
	Messages      []messageDocument  `bson:"messages"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func main() {
	opts := parseFlags()

	_ = godotenv.Load()

	cfg := collections{
		profiles:            envOrDefault("PROFILE_COLLECTION", "profiles"),
		tenants:             envOrDefault("TENANT_COLLECTION", "tenants"),
		endpoints:           envOrDefault("ENDPOINT_COLLECTION", "collection_endpoints"),
		responses:           envOrDefault("RESPONSE_COLLECTION", "nps_responses"),
		testimonials:        envOrDefault("TESTIMONIAL_COLLECTION", "testimonials"),
		recoveryCases:       envOrDefault("RECOVERY_CASE_COLLECTION", "recovery_cases"),
		failedNotifications: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "testimonioya")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		dropCollections(ctx, db, cfg)
		log.Printf("dropped existing collections")
	}

	if err := ensureIndexes(ctx, db, cfg); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))

	profiles := generateProfiles(opts.tenantCount)
	if err := insertMany(ctx, db.Collection(cfg.profiles), toAnySlice(profiles)); err != nil {
		log.Fatalf("failed to insert profiles: %v", err)
	}

	tenants := generateTenants(rng, profiles)
	if err := insertMany(ctx, db.Collection(cfg.tenants), toAnySlice(tenants)); err != nil {
		log.Fatalf("failed to insert tenants: %v", err)
	}

	endpoints := generateEndpoints(tenants)
	if err := insertMany(ctx, db.Collection(cfg.endpoints), toAnySlice(endpoints)); err != nil {
		log.Fatalf("failed to insert endpoints: %v", err)
	}

	responses, testimonials, cases := generateSubmissions(rng, endpoints, opts.responseCount)
	if err := insertMany(ctx, db.Collection(cfg.responses), toAnySlice(responses)); err != nil {
		log.Fatalf("failed to insert responses: %v", err)
	}
	if err := insertMany(ctx, db.Collection(cfg.testimonials), toAnySlice(testimonials)); err != nil {
		log.Fatalf("failed to insert testimonials: %v", err)
	}
	if err := insertMany(ctx, db.Collection(cfg.recoveryCases), toAnySlice(cases)); err != nil {
		log.Fatalf("failed to insert recovery cases: %v", err)
	}

	log.Printf("seed finished: profiles=%d tenants=%d endpoints=%d responses=%d testimonials=%d cases=%d",
		len(profiles), len(tenants), len(endpoints), len(responses), len(testimonials), len(cases))
	log.Printf("Mongo: %s / %s", mongoURI, dbName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.IntVar(&opts.tenantCount, "tenants", 3, "number of demo tenants to generate")
	flag.IntVar(&opts.responseCount, "responses", 60, "number of NPS responses to generate")
	flag.BoolVar(&opts.dropCollections, "drop", true, "drop existing collections before inserting")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "random seed for reproducible runs")
	flag.Parse()

	if opts.tenantCount <= 0 {
		log.Fatal("tenants must be at least 1")
	}
	if opts.responseCount < opts.tenantCount {
		opts.responseCount = opts.tenantCount
	}
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) {
	for _, name := range []string{
		cfg.profiles, cfg.tenants, cfg.endpoints, cfg.responses,
		cfg.testimonials, cfg.recoveryCases, cfg.failedNotifications,
	} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop also errors when the collection does not exist yet.
			log.Printf("WARN: failed to drop collection %s: %v", name, err)
		}
	}
}

func ensureIndexes(ctx context.Context, db *mongo.Database, cfg collections) error {
	if _, err := db.Collection(cfg.tenants).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("idx_tenant_user"),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("uniq_tenant_slug").SetUnique(true),
		},
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.endpoints).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("uniq_endpoint_slug").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_endpoint_tenant_created"),
		},
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.responses).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_response_tenant_created"),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.testimonials).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_testimonial_tenant_created"),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.recoveryCases).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenantId", Value: 1}, {Key: "updatedAt", Value: -1}},
		Options: options.Index().SetName("idx_case_tenant_updated"),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(cfg.failedNotifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_failed_status_created"),
	}); err != nil {
		return err
	}

	return nil
}

func generateProfiles(count int) []profileDocument {
	plans := []string{"premium", "pro", "free"}
	docs := make([]profileDocument, 0, count)
	for i := 0; i < count; i++ {
		docs = append(docs, profileDocument{
			ID:   fmt.Sprintf("demo-user-%d", i+1),
			Plan: plans[i%len(plans)],
		})
	}
	return docs
}

func generateTenants(rng *rand.Rand, profiles []profileDocument) []tenantDocument {
	now := time.Now().UTC()
	docs := make([]tenantDocument, 0, len(profiles))
	for i, profile := range profiles {
		name := businessNames[i%len(businessNames)]
		premium := profile.Plan == "premium"
		created := now.Add(-time.Duration(30+rng.Intn(300)) * 24 * time.Hour)
		docs = append(docs, tenantDocument{
			ID:                  primitive.NewObjectID(),
			UserID:              profile.ID,
			Name:                name,
			Slug:                slugify(name),
			BrandColor:          brandColors[i%len(brandColors)],
			DefaultLanguage:     "es",
			WelcomeMessage:      "Nos encantaría conocer tu experiencia.",
			GoogleReviewsURL:    fmt.Sprintf("https://g.page/r/%s/review", slugify(name)),
			GoogleNPSThreshold:  9,
			GoogleStarThreshold: 4,
			UseUnifiedFlow:      premium,
			UseRecoveryFlow:     premium,
			CreatedAt:           created,
			UpdatedAt:           created,
		})
	}
	return docs
}

func generateEndpoints(tenants []tenantDocument) []endpointDocument {
	docs := make([]endpointDocument, 0, len(tenants)*2)
	for _, tenant := range tenants {
		docs = append(docs, endpointDocument{
			ID:              primitive.NewObjectID(),
			TenantID:        tenant.ID,
			Slug:            tenant.Slug + "-testimonios",
			Name:            "Testimonios",
			Kind:            "collection",
			Active:          true,
			AskGoogleReview: true,
			CreatedAt:       tenant.CreatedAt,
		})
		if tenant.UseUnifiedFlow {
			docs = append(docs, endpointDocument{
				ID:                primitive.NewObjectID(),
				TenantID:          tenant.ID,
				Slug:              tenant.Slug + "-feedback",
				Name:              "Feedback NPS",
				Kind:              "unified",
				Active:            true,
				PromoterThreshold: 9,
				PassiveThreshold:  7,
				AskGoogleReview:   true,
				GoogleReviewsURL:  tenant.GoogleReviewsURL,
				CreatedAt:         tenant.CreatedAt,
			})
		}
	}
	return docs
}

func generateSubmissions(rng *rand.Rand, endpoints []endpointDocument, total int) ([]responseDocument, []testimonialDocument, []recoveryCaseDocument) {
	unified := make([]endpointDocument, 0, len(endpoints))
	for _, endpoint := range endpoints {
		if endpoint.Kind == "unified" {
			unified = append(unified, endpoint)
		}
	}
	if len(unified) == 0 {
		return nil, nil, nil
	}

	now := time.Now().UTC()
	responses := make([]responseDocument, 0, total)
	var testimonials []testimonialDocument
	var cases []recoveryCaseDocument

	for i := 0; i < total; i++ {
		endpoint := unified[rng.Intn(len(unified))]
		created := now.Add(-time.Duration(rng.Intn(28*24)) * time.Hour)
		score := rng.Intn(11)
		category := "passive"
		switch {
		case score >= 9:
			category = "promoter"
		case score < 7:
			category = "detractor"
		}

		name := customerNames[rng.Intn(len(customerNames))]
		email := fmt.Sprintf("%s@example.com", slugify(name))
		feedback := feedbackByCategory(rng, category)

		response := responseDocument{
			ID:            primitive.NewObjectID(),
			TenantID:      endpoint.TenantID,
			EndpointID:    endpoint.ID,
			Score:         score,
			Category:      category,
			Feedback:      feedback,
			CustomerName:  name,
			CustomerEmail: email,
			CreatedAt:     created,
		}
		responses = append(responses, response)

		switch category {
		case "promoter":
			testimonials = append(testimonials, testimonialDocument{
				ID:           primitive.NewObjectID(),
				TenantID:     endpoint.TenantID,
				CustomerName: name,
				Text:         feedback,
				Rating:       5,
				Status:       moderationStatuses[rng.Intn(len(moderationStatuses))],
				Source:       "nps",
				Featured:     rng.Intn(5) == 0,
				CreatedAt:    created,
			})
		case "detractor":
			cases = append(cases, recoveryCaseDocument{
				ID:            primitive.NewObjectID(),
				TenantID:      endpoint.TenantID,
				ResponseID:    response.ID,
				Status:        caseStatuses[rng.Intn(len(caseStatuses))],
				CustomerName:  name,
				CustomerEmail: email,
				Messages: []messageDocument{{
					Role:      "customer",
					Text:      feedback,
					CreatedAt: created,
				}},
				CreatedAt: created,
				UpdatedAt: created,
			})
		}
	}

	return responses, testimonials, cases
}

func feedbackByCategory(rng *rand.Rand, category string) string {
	switch category {
	case "promoter":
		return promoterFeedback[rng.Intn(len(promoterFeedback))]
	case "detractor":
		return detractorFeedback[rng.Intn(len(detractorFeedback))]
	default:
		return passiveFeedback[rng.Intn(len(passiveFeedback))]
	}
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

func slugify(input string) string {
	var builder strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(input) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			builder.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				builder.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(builder.String(), "-")
	if out == "" {
		return "demo-" + strings.Split(uuid.NewString(), "-")[0]
	}
	return out
}

var (
	businessNames = []string{
		"Café Aurora", "Clínica Dental Sonríe", "Taller Rodríguez", "Estudio Yoga Luna", "Panadería El Trigal",
	}

	brandColors = []string{"#2563eb", "#16a34a", "#d97706", "#9333ea", "#dc2626"}

	customerNames = []string{
		"María García", "Juan Pérez", "Lucía Fernández", "Carlos López", "Ana Martínez",
		"Pedro Sánchez", "Sofía Ramírez", "Diego Torres", "Valentina Ruiz", "Andrés Gómez",
	}

	promoterFeedback = []string{
		"Excelente atención, volveré sin duda.",
		"El mejor servicio que he recibido en mucho tiempo.",
		"Todo perfecto, lo recomiendo a todos mis amigos.",
	}

	passiveFeedback = []string{
		"Buen servicio en general, aunque la espera fue algo larga.",
		"Correcto, cumple con lo esperado.",
		"",
	}

	detractorFeedback = []string{
		"La atención fue lenta y nadie resolvió mi problema.",
		"El pedido llegó tarde y en mal estado.",
		"No quedé satisfecho con el resultado final.",
	}

	moderationStatuses = []string{"pending", "approved", "approved", "rejected"}
	caseStatuses       = []string{"open", "in_progress", "resolved"}
)
