package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "medstore-backend/internal/adapters/web"
	"medstore-backend/internal/app"
	"medstore-backend/internal/core"
	"medstore-backend/internal/db"
	"medstore-backend/internal/notify"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	catalogService := core.NewCatalogService(pool)
	customerService := core.NewCustomerService(pool)
	invoiceService := core.NewInvoiceService(pool)
	returnService := core.NewReturnService(pool)
	orderService := core.NewCustomOrderService(pool)

	var mailer notify.Mailer
	if m, err := notify.NewSMTPMailerFromEnv(); err != nil {
		log.Printf("Warning: mail disabled: %v", err)
	} else {
		mailer = m
	}

	svc := app.NewAppService(pool, catalogService, customerService, invoiceService, returnService, orderService, mailer)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
