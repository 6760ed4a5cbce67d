package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/zedx/codeshop/pkg/storage"
	dydbstore "github.com/zedx/codeshop/pkg/storage/dynamodb"
)

var store storage.Storage

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)

	accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
	itemsTable := os.Getenv("DYNAMODB_ITEMS_TABLE_NAME")
	codesTable := os.Getenv("DYNAMODB_CODES_TABLE_NAME")
	purchasesTable := os.Getenv("DYNAMODB_PURCHASES_TABLE_NAME")

	store = dydbstore.New(dbClient, accountsTable, itemsTable, codesTable, purchasesTable)
}

// HandleRequest is triggered by an EventBridge Schedule. It recomputes every
// item's derived stock counter from the underlying code set. Normal operation
// never drifts (the purchase commit and code insertion update the counter in
// the same transaction); this sweep repairs operator-inflicted damage such as
// manual table edits or partial restores.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting stock reconciliation sweep...")

	items, err := store.ListItems(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list items: %v", err)
		return err
	}

	var drifted int
	for _, item := range items {
		recounted, err := store.RecountStock(ctx, item.Name)
		if err != nil {
			log.Printf("ERROR: failed to recount stock for item %s: %v", item.Name, err)
			// Continue to the next item, don't let one failure stop the whole sweep.
			continue
		}
		if recounted != item.Stock {
			drifted++
			log.Printf("Stock drift repaired for item %s: counter was %d, recounted %d", item.Name, item.Stock, recounted)
		}
	}

	log.Printf("Stock reconciliation sweep finished. %d of %d items had drifted.", drifted, len(items))
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
