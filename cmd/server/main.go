package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/YuBaichuan2000/e-commerce/auth"
	catalogpg "github.com/YuBaichuan2000/e-commerce/catalog/postgres"
	"github.com/YuBaichuan2000/e-commerce/checkout"
	"github.com/YuBaichuan2000/e-commerce/checkout/stripegw"
	"github.com/YuBaichuan2000/e-commerce/coupon"
	couponpg "github.com/YuBaichuan2000/e-commerce/coupon/postgres"
	"github.com/YuBaichuan2000/e-commerce/internal/config"
	"github.com/YuBaichuan2000/e-commerce/internal/db"
	orderpg "github.com/YuBaichuan2000/e-commerce/order/postgres"
	"github.com/YuBaichuan2000/e-commerce/server"
	"github.com/YuBaichuan2000/e-commerce/token"
	"github.com/YuBaichuan2000/e-commerce/token/redisrepo"
	userspg "github.com/YuBaichuan2000/e-commerce/users/postgres"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(log zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.MustLoad()
	displayAppname(cfg.AppName)

	pg, err := db.OpenPostgres(cfg.PostgresDSN)
	if err != nil {
		return errors.Wrap(err, "connecting to postgres")
	}
	defer pg.Close()

	rdb, err := db.OpenRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return errors.Wrap(err, "connecting to redis")
	}
	defer rdb.Close()

	userRepo := userspg.NewRepo(pg)
	productRepo := catalogpg.NewRepo(pg)
	couponRepo := couponpg.NewRepo(pg)
	orderRepo := orderpg.NewRepo(pg)

	tokens, err := token.NewService(redisrepo.New(rdb), token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		CacheTimeout:  cfg.StoreTimeout,
	})
	if err != nil {
		return errors.Wrap(err, "creating token service")
	}

	authSvc, err := auth.NewService(userRepo, tokens, log)
	if err != nil {
		return errors.Wrap(err, "creating auth service")
	}

	ledger, err := coupon.NewLedger(couponRepo, log, coupon.WithStoreTimeout(cfg.StoreTimeout))
	if err != nil {
		return errors.Wrap(err, "creating coupon ledger")
	}

	orchestrator, err := checkout.NewOrchestrator(
		stripegw.New(cfg.StripeSecretKey, cfg.Currency),
		ledger,
		orderRepo,
		checkout.Config{
			SuccessURL:           cfg.BaseURL + "/purchase-success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:            cfg.BaseURL + "/purchase-cancel",
			RewardThresholdCents: cfg.RewardThresholdCents,
			GatewayTimeout:       cfg.GatewayTimeout,
			StoreTimeout:         cfg.StoreTimeout,
		},
		log,
	)
	if err != nil {
		return errors.Wrap(err, "creating checkout orchestrator")
	}

	srv, err := server.New(cfg, server.Deps{
		Auth:     authSvc,
		Tokens:   tokens,
		Users:    userRepo,
		Catalog:  productRepo,
		Coupons:  ledger,
		Checkout: orchestrator,
	}, log)
	if err != nil {
		return errors.Wrap(err, "creating server")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go listenAndServe(httpServer, log)
	waitForStopSignal()
	return shutdown(httpServer, cfg.ShutdownTimeout)
}

func listenAndServe(server *http.Server, log zerolog.Logger) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
