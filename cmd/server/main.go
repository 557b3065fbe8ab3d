package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Developer-0210/food-order-server/internal/config"
	"github.com/Developer-0210/food-order-server/internal/es"
	"github.com/Developer-0210/food-order-server/internal/handlers"
	"github.com/Developer-0210/food-order-server/internal/logging"
	"github.com/Developer-0210/food-order-server/internal/mail"
	authmw "github.com/Developer-0210/food-order-server/internal/middleware/auth"
	"github.com/Developer-0210/food-order-server/internal/mykafka"
	httpserver "github.com/Developer-0210/food-order-server/internal/transport/http"
)

const menuIndex = "menu_items"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration, logger)
	if err != nil {
		log.Fatal(err)
	}

	sender := mail.NewSendGridSender(configuration.SENDGRID_API_KEY, configuration.FROM_EMAIL)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(logging.RequestLogger(logger))

	mw := &authmw.Middleware{DB: db, JWTSecret: jwtSecret}
	deps := httpserver.Deps{
		Auth:             mw,
		AuthHandler:      &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret},
		OTPHandler:       &handlers.OTPHandler{DB: db, Sender: sender},
		MenuHandler:      &handlers.MenuHandler{DB: db, Producer: prod, ES: esClient, ESIndex: menuIndex},
		TableHandler:     &handlers.TableHandler{DB: db},
		OrderHandler:     &handlers.OrderHandler{DB: db, Producer: prod},
		QRHandler:        &handlers.QRHandler{DB: db, PublicMenuURL: configuration.PUBLIC_MENU_URL},
		SearchHandler:    &handlers.SearchHandler{DB: db, ES: esClient, Index: menuIndex},
		SuperuserHandler: &handlers.SuperuserHandler{DB: db},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
