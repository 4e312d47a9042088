// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-bank-payments/internal/accesstokenrepo"
	"github.com/go-petr/pet-bank-payments/internal/accountdelivery"
	"github.com/go-petr/pet-bank-payments/internal/accountrepo"
	"github.com/go-petr/pet-bank-payments/internal/accountservice"
	"github.com/go-petr/pet-bank-payments/internal/carddelivery"
	"github.com/go-petr/pet-bank-payments/internal/cardrepo"
	"github.com/go-petr/pet-bank-payments/internal/cardservice"
	"github.com/go-petr/pet-bank-payments/internal/currencyrepo"
	"github.com/go-petr/pet-bank-payments/internal/currencyservice"
	"github.com/go-petr/pet-bank-payments/internal/messagedelivery"
	"github.com/go-petr/pet-bank-payments/internal/messagerepo"
	"github.com/go-petr/pet-bank-payments/internal/messageservice"
	"github.com/go-petr/pet-bank-payments/internal/middleware"
	"github.com/go-petr/pet-bank-payments/internal/paymentdelivery"
	"github.com/go-petr/pet-bank-payments/internal/paymentrepo"
	"github.com/go-petr/pet-bank-payments/internal/paymentservice"
	"github.com/go-petr/pet-bank-payments/internal/paymentstrategy"
	"github.com/go-petr/pet-bank-payments/internal/ratedelivery"
	"github.com/go-petr/pet-bank-payments/internal/rateclient"
	"github.com/go-petr/pet-bank-payments/internal/tokendelivery"
	"github.com/go-petr/pet-bank-payments/internal/tokengate"
	"github.com/go-petr/pet-bank-payments/pkg/configpkg"
	"github.com/go-petr/pet-bank-payments/pkg/financegen"
	"github.com/go-petr/pet-bank-payments/pkg/tokenpkg"
)

// Server holds db connection, handlers router and the services background workers need.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config

	Gate     *tokengate.Gate
	Rates    *currencyservice.Service
	Messages *messageservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config, publisher paymentservice.Publisher) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	cardRepo := cardrepo.NewRepoPGS(conn)
	paymentRepo := paymentrepo.NewRepoPGS(conn)
	currencyRepo := currencyrepo.NewRepoPGS(conn)
	messageRepo := messagerepo.NewRepoPGS(conn)
	tokenRepo := accesstokenrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewMaker(config.TokenKind, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	gen := financegen.New(time.Now)

	gate := tokengate.New(tokenMaker, tokenRepo, config.AccessTokenDuration, time.Now)
	rates := currencyservice.New(
		currencyservice.NewCache(config.RateTTL, currencyservice.SystemClock),
		currencyRepo,
		rateclient.New(config.RateProviderURL, config.RateProviderKey, config.RateProviderTimeout),
		currencyservice.SystemClock,
	)
	accountService := accountservice.New(accountRepo, gen, config.BankName)
	cardService := cardservice.New(cardRepo, accountRepo, gen)
	messageService := messageservice.New(messageRepo)
	paymentService := paymentservice.New(
		accountRepo,
		paymentRepo,
		rates,
		paymentstrategy.NewFactory(cardRepo, config.SupportedBanks, time.Now),
		publisher,
		paymentservice.NewLocker(),
		paymentservice.Config{
			LockTimeout:    config.LockTimeout,
			PublishTimeout: config.PublishTimeout,
			SettleRetries:  config.SettleRetries,
		},
	)

	accountHandler := accountdelivery.NewHandler(accountService)
	cardHandler := carddelivery.NewHandler(cardService)
	paymentHandler := paymentdelivery.NewHandler(paymentService)
	messageHandler := messagedelivery.NewHandler(messageService)
	rateHandler := ratedelivery.NewHandler(rates)
	tokenHandler := tokendelivery.NewHandler(gate)

	if err := middleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("cannot register validators: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/rates/:from/:to", rateHandler.Get)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(gate))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)
	authRoutes.PATCH("/accounts/:id/status", accountHandler.SetStatus)

	authRoutes.POST("/accounts/:id/cards", cardHandler.Issue)
	authRoutes.GET("/accounts/:id/cards", cardHandler.List)
	authRoutes.PATCH("/accounts/:id/cards/:card_id/status", cardHandler.SetStatus)

	authRoutes.POST("/payments", paymentHandler.Create)
	authRoutes.GET("/payments/:id", paymentHandler.Get)
	authRoutes.GET("/accounts/:id/payments", paymentHandler.ListByAccount)

	authRoutes.GET("/messages", messageHandler.List)
	authRoutes.POST("/messages/:id/read", messageHandler.MarkRead)

	authRoutes.DELETE("/tokens/current", tokenHandler.RevokeCurrent)

	server := &Server{
		DB:       conn,
		Engine:   engine,
		Config:   config,
		Gate:     gate,
		Rates:    rates,
		Messages: messageService,
	}

	return server, nil
}
