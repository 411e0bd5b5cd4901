package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"recipe-giving/logging"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("❌ Failed to load configuration")
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.WithError(err).Fatal("❌ Failed to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("❌ Failed to start")
	}
	defer a.store.Close()
	a.runBackground(ctx)

	logrus.Info("✅ Recipe giving starting...")

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.Server.UseHTTPS {
			certFile, keyFile := cfg.Server.CertFile, cfg.Server.KeyFile
			if !fileExists(certFile) || !fileExists(keyFile) {
				logrus.Info("📜 No certificates provided, generating self-signed certificate...")
				if err := generateSelfSignedCert(certFile, keyFile); err != nil {
					errCh <- err
					return
				}
				logrus.Info("✅ Self-signed certificate generated")
			}
			logrus.Infof("🌍 Server running on https://:%s", cfg.Server.Port)
			errCh <- server.ListenAndServeTLS(certFile, keyFile)
			return
		}

		logrus.Infof("🌍 Server running on http://:%s", cfg.Server.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("❌ Server failed")
		}
	case <-ctx.Done():
		logrus.Info("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("❌ Graceful shutdown failed")
		}
	}
}
