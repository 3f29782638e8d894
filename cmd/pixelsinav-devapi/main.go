package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	api "github.com/pixelsinav/pixelsinav/internal/api/http"
	"github.com/pixelsinav/pixelsinav/internal/auth"
	"github.com/pixelsinav/pixelsinav/internal/config"
	"github.com/pixelsinav/pixelsinav/internal/db"
	"github.com/pixelsinav/pixelsinav/internal/metrics"
	"github.com/pixelsinav/pixelsinav/internal/storage"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	secret := cfg.HMACSecret
	if secret == "" {
		secret = "supersecret-dev-key"
		logger.Warn("JWT_HMAC_SECRET not set, using the development secret")
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	srv := api.NewServer(dbh, bs, auth.NewAuthService(secret, cfg.TokenTTL))
	srv.Log = logger
	srv.Metrics = metrics.New()
	srv.CORSOrigins = cfg.CORSOrigins
	srv.LoginPerMinute = cfg.LoginPerMin
	if err := srv.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("pixelsinav devapi listening", "addr", cfg.HTTPAddr, "db", cfg.DBDriver)
	log.Fatal(s.ListenAndServe())
}
