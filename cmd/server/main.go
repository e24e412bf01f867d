package main

import (
	"context"
	"log"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/akverma/order-management-api/internal/config"
	"github.com/akverma/order-management-api/internal/database"
	"github.com/akverma/order-management-api/internal/handler"
	"github.com/akverma/order-management-api/internal/mail"
	"github.com/akverma/order-management-api/internal/queue"
	"github.com/akverma/order-management-api/internal/repository"
	"github.com/akverma/order-management-api/internal/router"
	queue_publisher "github.com/akverma/order-management-api/internal/service"
	"github.com/akverma/order-management-api/internal/storage"
)

func main() {
	cfg := config.Load()

	client, err := database.Open(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongodb connect: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	if err := users.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	images, err := storage.NewS3Client(context.Background(),
		cfg.AWSAccessKey, cfg.AWSSecretKey, cfg.S3Region, cfg.S3Bucket, cfg.S3BaseURL)
	if err != nil {
		log.Fatalf("s3 client: %v", err)
	}

	mailer := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.ClientURL)

	rdb := config.NewRedisClient() // nil disables the catalog cache

	e := echo.New()
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowCredentials: true,
	}))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, mailer))
	router.RegisterProducts(e, handler.NewProductHandler(products, images, cfg.S3BaseURL), cfg, rdb)
	router.RegisterOrders(e, handler.NewOrderHandler(orders, products, queue_publisher.PublishOrderPlaced), cfg)

	// Background consumer that journals placed orders; runs its own
	// reconnect loop and never returns under normal operation.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
