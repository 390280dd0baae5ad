package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/campus-canteen/order-service/internal/app"
	"github.com/campus-canteen/order-service/internal/config"
	"github.com/campus-canteen/order-service/internal/events"
	"github.com/campus-canteen/order-service/internal/handler"
	"github.com/campus-canteen/order-service/internal/menu"
	"github.com/campus-canteen/order-service/internal/middleware"
	"github.com/campus-canteen/order-service/internal/migrate"
	"github.com/campus-canteen/order-service/internal/payment"
	"github.com/campus-canteen/order-service/internal/postgres"
	"github.com/campus-canteen/order-service/internal/repo"
	"github.com/campus-canteen/order-service/internal/service"
	"github.com/campus-canteen/order-service/pkg/auth"
	"github.com/campus-canteen/order-service/pkg/trm"

	_ "github.com/campus-canteen/order-service/docs"
	"github.com/joho/godotenv"
)

// @title           Campus Canteen Order API
// @version         1.0
// @description     Pre-order storefront: menu, carts, checkout with pickup tokens
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	panicIfErr("failed to run migrations", migrate.Up(postgres.DSN(conf.Postgres)))

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)

	gateway, err := payment.NewGateway(conf.Payment, logger)
	panicIfErr("invalid payment config", err)

	catalog, err := menu.NewClient(conf.Menu, logger)
	panicIfErr("invalid menu config", err)

	publisher := events.NewKafkaPublisher(conf.Kafka)

	orderService := service.NewOrderService(logger, txManager, orderRepo, gateway, publisher, conf.Order)
	cartService := service.NewCartService(logger, catalog, conf.Order)

	strategy := auth.NewHMACStrategy(conf.Auth.Secret, auth.Options{TTL: conf.Auth.TokenTTL})
	httpHandler := handler.NewHTTPHandler(logger, orderService, cartService, gateway, catalog, middleware.Auth(strategy))

	app := app.New(logger, conf)
	app.SetHTTPHandlers(httpHandler)
	app.SetStarters(catalog)
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
