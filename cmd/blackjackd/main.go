package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/blackjacktable"
	"github.com/weedbox/blackjacktable/config"
	"github.com/weedbox/blackjacktable/publisher"
	"github.com/weedbox/blackjacktable/session"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("blackjackd stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logrus.SetLevel(cfg.Level())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	shoe, err := cfg.NewShoe()
	if err != nil {
		return err
	}

	// listeners are complete before the first player can connect
	listeners := make([]func(*blackjacktable.Event), 0)
	callbacks := blackjacktable.NewTableEngineCallbacks()
	callbacks.OnEvent = func(ev *blackjacktable.Event) {
		for _, fn := range listeners {
			fn(ev)
		}
	}
	callbacks.OnTableErrorUpdated = func(table *blackjacktable.Table, err error) {
		if errors.Is(err, blackjacktable.ErrResourceExhaustion) {
			logrus.WithField("table", table.ID).WithError(err).Warn("table error")
		}
	}

	tables := blackjacktable.NewManager()
	defer tables.CloseAll()

	engine, table, err := tables.CreateTable(cfg.EngineOptions(), shoe, cfg.TableSetting(), blackjacktable.WithCallbacks(callbacks))
	if err != nil {
		return err
	}

	auth := session.NewAuthenticator(cfg.AuthenticatorOptions())
	mgr := session.NewManager(engine, auth, session.WithManagerOptions(cfg.ManagerOptions()))
	listeners = append(listeners, mgr.Dispatch)

	if cfg.NatsURL != "" {
		nc, err := publisher.Connect(cfg.NatsURL, "blackjackd")
		if err != nil {
			return err
		}
		defer nc.Close()

		pub, err := publisher.NewNatsPublisher(nc, cfg.NatsSubject)
		if err != nil {
			return err
		}
		listeners = append(listeners, pub.OnEvent)

		logrus.WithFields(logrus.Fields{
			"url":     cfg.NatsURL,
			"subject": cfg.NatsSubject,
		}).Info("mirroring events to nats")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mgr.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":  cfg.ListenAddr,
			"table": table.ID,
			"shoe":  cfg.Shoe,
		}).Info("table server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mgr.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("http shutdown")
	}

	return tables.CloseTable(table.ID)
}
