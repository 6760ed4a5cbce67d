package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/zedx/codeshop/pkg/events"
	"github.com/zedx/codeshop/pkg/handlers/accounts"
	"github.com/zedx/codeshop/pkg/handlers/catalog"
	"github.com/zedx/codeshop/pkg/handlers/purchases"
	wshandlers "github.com/zedx/codeshop/pkg/handlers/websockets"
	"github.com/zedx/codeshop/pkg/middleware"
	"github.com/zedx/codeshop/pkg/shop"
	dydbstore "github.com/zedx/codeshop/pkg/storage/dynamodb"
	"github.com/zedx/codeshop/pkg/websockets"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
	itemsTable := os.Getenv("DYNAMODB_ITEMS_TABLE_NAME")
	codesTable := os.Getenv("DYNAMODB_CODES_TABLE_NAME")
	purchasesTable := os.Getenv("DYNAMODB_PURCHASES_TABLE_NAME")

	if accountsTable == "" || itemsTable == "" || codesTable == "" || purchasesTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store := dydbstore.New(dbClient, accountsTable, itemsTable, codesTable, purchasesTable)

	// Purchase audit feed. Optional: without a queue the events are dropped.
	var eventPublisher events.Publisher = &events.NoOpPublisher{}
	if sqsQueueURL := os.Getenv("SQS_QUEUE_URL"); sqsQueueURL != "" {
		eventPublisher = events.NewSQSPublisher(sqs.NewFromConfig(cfg), sqsQueueURL)
	}

	// Storefront push. Optional: requires the websocket API endpoint and the
	// connections table. In the deployed stack clients register through the
	// storefront websocket lambda; the local server registers them on /ws.
	var push websockets.Publisher = &websockets.NoOpPublisher{}
	var wsHandler *wshandlers.Handler
	if wsEndpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); wsEndpoint != "" {
		store.ConnectionsTableName = os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")
		if store.ConnectionsTableName == "" {
			log.Fatal("WEBSOCKET_API_ENDPOINT is set but DYNAMODB_CONNECTIONS_TABLE_NAME is not")
		}
		publisher, err := websockets.NewPublisher(store, store, wsEndpoint)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
		push = publisher
		wsHandler = wshandlers.NewHandler(store)
	}

	purchaseService := shop.NewPurchaseService(store, eventPublisher, push, logger)
	catalogService := shop.NewCatalogService(store, push, logger)

	purchasesHandler := purchases.NewPurchasesHandler(purchaseService, catalogService)
	catalogHandler := catalog.NewCatalogHandler(catalogService)
	accountsHandler := accounts.NewAccountsHandler(catalogService)

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(logger))

	router.Post("/purchases", purchasesHandler.CreatePurchase)
	router.Get("/purchases", purchasesHandler.ListPurchases)

	router.Get("/catalog", catalogHandler.ListCatalog)
	router.Put("/catalog/{itemName}", func(w http.ResponseWriter, r *http.Request) {
		catalogHandler.UpsertItem(w, r, chi.URLParam(r, "itemName"))
	})
	router.Delete("/catalog/{itemName}", func(w http.ResponseWriter, r *http.Request) {
		catalogHandler.DeleteItem(w, r, chi.URLParam(r, "itemName"))
	})
	router.Post("/catalog/{itemName}/codes", func(w http.ResponseWriter, r *http.Request) {
		catalogHandler.InsertCode(w, r, chi.URLParam(r, "itemName"))
	})
	router.Get("/codes", catalogHandler.ListCodeSummaries)

	router.Get("/accounts/{userId}", func(w http.ResponseWriter, r *http.Request) {
		accountsHandler.GetAccount(w, r, chi.URLParam(r, "userId"))
	})
	router.Post("/accounts/{userId}/credits", func(w http.ResponseWriter, r *http.Request) {
		accountsHandler.CreditAccount(w, r, chi.URLParam(r, "userId"))
	})

	if wsHandler != nil {
		router.Get("/ws", wsHandler.ServeHTTP)
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
