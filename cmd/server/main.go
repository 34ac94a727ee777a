package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/pulso-app/pulso/internal/api"
	"github.com/pulso-app/pulso/internal/db"
	"github.com/pulso-app/pulso/internal/middleware"
	"github.com/pulso-app/pulso/internal/notify"
	"github.com/pulso-app/pulso/internal/services"
	"github.com/pulso-app/pulso/internal/utils"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("PULSO_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	commit := os.Getenv("PULSO_COMMIT")
	buildTime := os.Getenv("PULSO_BUILD_TIME")

	store := openStore()

	mux := http.NewServeMux()
	api.NewRouter(store, services.DefaultResolverConfig()).Register(mux)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Pulso API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	startReminders(store)

	handler := middleware.CORS(middleware.SecureHeaders(middleware.NoStore(middleware.LocaleMiddleware(middleware.WithAuth(mux)))))

	log.Printf("Pulso server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore picks Firestore when a project is configured and falls back to
// the in-process store for local development.
func openStore() api.Store {
	project := os.Getenv("PULSO_FIRESTORE_PROJECT")
	if project == "" {
		log.Printf("PULSO_FIRESTORE_PROJECT not set, using in-memory store")
		return api.NewMemoryStore()
	}
	fs, err := db.NewFirestoreStore(context.Background(), project, os.Getenv("PULSO_FIRESTORE_CREDENTIALS"))
	if err != nil {
		log.Fatalf("firestore: %v", err)
	}
	return fs
}

// startReminders schedules the evening missing-submission sweep when a
// Resend key is configured. Without one the sweep stays off.
func startReminders(store api.Store) {
	apiKey := os.Getenv("PULSO_RESEND_KEY")
	if apiKey == "" {
		return
	}
	from := os.Getenv("PULSO_REMINDER_FROM")
	if from == "" {
		from = "Pulso <avisos@pulso.app>"
	}
	tz := os.Getenv("PULSO_REMINDER_TZ")
	if tz == "" {
		tz = "America/Argentina/Buenos_Aires"
	}
	spec := os.Getenv("PULSO_REMINDER_CRON")
	if spec == "" {
		spec = "0 21 * * *"
	}

	reminder := services.NewReminderService(
		api.NewReminderStoreAdapter(store),
		notify.NewResendNotifier(apiKey, from),
	)
	c := cron.New(cron.WithLocation(mustLocation(tz)))
	if _, err := c.AddFunc(spec, func() {
		sent, err := reminder.Run(context.Background(), tz)
		if err != nil {
			log.Printf("reminder sweep: %v", err)
			return
		}
		log.Printf("reminder sweep done: %d summaries sent", sent)
	}); err != nil {
		log.Fatalf("invalid PULSO_REMINDER_CRON=%q: %v", spec, err)
	}
	c.Start()
	log.Printf("reminder sweep scheduled: %s (%s)", spec, tz)
}

func mustLocation(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("invalid PULSO_REMINDER_TZ=%q: %v", tz, err)
	}
	return loc
}
