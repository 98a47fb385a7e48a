package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"image-drop/internal/server"
	"image-drop/internal/storage"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := server.Config{
		Addr:        getenvDefault("IMGD_ADDR", ":8080"),
		StorageDir:  getenvDefault("IMGD_STORAGE_DIR", "./uploads"),
		RequireAuth: getenvBool("IMGD_REQUIRE_AUTH", true),
		AuthKey:     getenvDefault("IMGD_AUTH_KEY", server.DefaultAuthKey),
		ReadOnly:    getenvBool("IMGD_READ_ONLY", false),
		Version:     getenvDefault("IMGD_VERSION", "dev"),
	}

	if v := cfg.Validate(); v.HasErrors() {
		logrus.Error(v.ErrorString())
		os.Exit(1)
	}
	if cfg.UsesPlaceholderKey() {
		// Misconfiguration, not a startup failure: the operator must
		// override the placeholder in production.
		logrus.Warn("IMGD_AUTH_KEY is the default placeholder; set a real secret in production")
	}

	// Storage directory must exist before any request is served.
	store, err := storage.New(cfg.StorageDir)
	if err != nil {
		logrus.Errorf("storage init failed: %v", err)
		os.Exit(1)
	}

	srv := server.New(cfg, store)

	// Start the HTTP server in a background goroutine so we can listen
	// for OS signals while it runs.
	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":      cfg.Addr,
			"dir":       cfg.StorageDir,
			"read_only": cfg.ReadOnly,
			"auth":      cfg.RequireAuth,
			"version":   cfg.Version,
		}).Info("starting")
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Block until either a shutdown signal is received or the server
	// encounters an error.
	select {
	case sig := <-sigCh:
		logrus.Infof("shutting down on signal %s", sig)
		// Give the server 5 seconds to finish in-flight requests.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logrus.Errorf("shutdown error: %v", err)
			os.Exit(1)
		}
		logrus.Info("shutdown complete")
	case err := <-errCh:
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) {
				logrus.Errorf("listen address %s already in use", cfg.Addr)
			} else {
				logrus.Errorf("server error: %v", err)
			}
			os.Exit(1)
		}
	}
}

// getenvDefault reads an environment variable and returns a default value
// if not set.
func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// getenvBool reads a boolean environment variable; unset or unparsable
// values return the default.
func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
