// Package main runs the payments API together with its settlement consumer and rate refresher.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-bank-payments/cmd/httpserver"
	"github.com/go-petr/pet-bank-payments/internal/broker"
	"github.com/go-petr/pet-bank-payments/internal/currencyservice"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/go-petr/pet-bank-payments/pkg/configpkg"
	"github.com/go-petr/pet-bank-payments/pkg/dbpkg"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "./configs", "directory holding app.env")
	issueFor := flag.String("issue-token", "", "issue an access token for the username, print it and exit")
	flag.Parse()

	config, err := configpkg.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	if err := dbpkg.Migrate(db, config.MigrationURL); err != nil {
		logger.Fatal().Err(err).Msg("cannot run migrations")
	}

	publisher := broker.NewPublisher(config.KafkaBrokers, config.KafkaTopic)
	defer publisher.Close()

	server, err := httpserver.New(db, logger, config, publisher)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	if *issueFor != "" {
		token, at, err := server.Gate.Issue(logger.WithContext(context.Background()), *issueFor)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot issue token")
		}

		fmt.Printf("%s\nexpires at %s\n", token, at.ExpiresAt.Format(time.RFC3339))

		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	pairs, err := currencyservice.ParsePairs(config.RateRefreshPairs)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot parse rate refresh pairs")
	}

	consumer := broker.NewConsumer(config.KafkaBrokers, config.KafkaTopic, config.KafkaConsumerGroup)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		consumer.Serve(ctx, server.Messages.OnSettlement)
	}()

	go func() {
		defer wg.Done()
		server.Rates.RunRefresher(ctx, config.RateRefreshInterval, pairs)
	}()

	httpServer := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("address", config.ServerAddress).Msg("BANK PAYMENTS API SERVER HAS STARTED")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("cannot start server")
			stop()
		}
	}()

	<-ctx.Done()

	shutdown(logger, httpServer, consumer, &wg)
}

func shutdown(logger zerolog.Logger, httpServer *http.Server, consumer *broker.Consumer, wg *sync.WaitGroup) {
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	wg.Wait()

	if err := consumer.Close(); err != nil {
		logger.Error().Err(err).Msg("closing settlement consumer")
	}
}
