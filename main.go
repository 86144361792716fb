package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kobetex/admin"
	"kobetex/auth"
	"kobetex/cart"
	"kobetex/checkout"
	"kobetex/db"
	"kobetex/home"
	"kobetex/live"
	"kobetex/mailer"
	"kobetex/middleware"
	"kobetex/notify"
	"kobetex/persist"
	"kobetex/ratelim"
	"kobetex/rdx"
	"kobetex/receipts"
	"kobetex/routes"
	"kobetex/store"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// buildTiers selects the persistence strategy. "remote" uses Redis for
// the light tier and MongoDB for the heavy tier; anything else runs
// purely in memory (nothing survives a restart).
func buildTiers() (persist.KV, persist.BlobStore) {
	if envOr("PERSIST_MODE", "remote") != "remote" {
		log.Println("PERSIST_MODE=memory; state is in-memory only")
		return persist.NewMemKV(), persist.NewMemBlobs()
	}

	var light persist.KV
	if err := rdx.Init(envOr("REDIS_ADDR", "localhost:6379")); err != nil {
		log.Println("Redis unavailable, light tier degrades to memory:", err)
		light = persist.NewMemKV()
	} else {
		light = persist.NewRedisKV(rdx.Conn)
	}

	var heavy persist.BlobStore
	if err := db.Connect(envOr("MONGO_URI", "mongodb://localhost:27017")); err != nil {
		log.Println("Mongo unavailable, heavy tier degrades to memory:", err)
		heavy = persist.NewMemBlobs()
	} else {
		heavy = persist.NewMongoBlobs(db.BlobsCollection)
	}
	return light, heavy
}

func buildMailer() mailer.Sender {
	endpoint := os.Getenv("EMAILJS_ENDPOINT")
	if endpoint == "" {
		return mailer.Noop{}
	}
	return mailer.NewRelay(
		endpoint,
		envOr("EMAILJS_SERVICE_ID", "service_kobetex"),
		envOr("EMAILJS_TEMPLATE_ID", "template_order"),
		os.Getenv("EMAILJS_USER_ID"),
	)
}

func setupRouter(st *store.Store, carts *cart.Registry, hub *live.Hub, sender mailer.Sender) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	// Per-surface budgets: the shared-password gate is the tightest,
	// code validation is the most brute-forceable public endpoint.
	authLimit := ratelim.New(10, 5)
	checkoutLimit := ratelim.New(30, 10)
	codeLimit := ratelim.New(20, 5)
	gateLimit := ratelim.New(5, 3)

	supportPhone := envOr("SUPPORT_PHONE", "22890000000")

	userToken := func(username, userID string) (string, error) {
		return middleware.CreateToken(username, userID, []string{"user"}, 7*24*time.Hour)
	}
	adminToken := func() (string, error) {
		return middleware.CreateToken("admin", "admin", []string{"admin"}, 12*time.Hour)
	}

	routes.AddAuthRoutes(router, auth.NewHandlers(st, userToken), authLimit)
	routes.AddCartRoutes(router, cart.NewHandlers(carts))
	routes.AddCheckoutRoutes(router, checkout.NewService(st, carts, sender, supportPhone), checkoutLimit)
	routes.AddHomeRoutes(router, home.NewHandlers(st), codeLimit)
	routes.AddReceiptRoutes(router, receipts.NewHandlers(st))
	routes.AddAdminRoutes(router, admin.NewHandlers(st, adminToken), gateLimit)
	routes.AddLiveRoutes(router, hub)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	light, heavy := buildTiers()

	hub := live.NewHub()
	go hub.Run()

	st := store.New(light, heavy, notify.NewBus())
	st.OnChange = hub.Broadcast

	// The initial heavy-tier load must complete before any mutation
	// is allowed to persist back; Load merges and flushes anything
	// that raced it.
	st.Load(context.Background())

	carts := cart.NewRegistry()
	router := setupRouter(st, carts, hub, buildMailer())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down live feed...")
		hub.Stop()
		db.Disconnect()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
