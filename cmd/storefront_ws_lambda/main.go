package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	wshandlers "github.com/zedx/codeshop/pkg/handlers/websockets"
	dydbstore "github.com/zedx/codeshop/pkg/storage/dynamodb"
)

var handler *wshandlers.Handler

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")
	if connectionsTable == "" {
		log.Fatal("DYNAMODB_CONNECTIONS_TABLE_NAME is not set")
	}

	store := dydbstore.New(dynamodb.NewFromConfig(cfg), "", "", "", "")
	store.ConnectionsTableName = connectionsTable

	handler = wshandlers.NewHandler(store)
}

// HandleRequest dispatches API Gateway websocket events by route. The
// storefront API defines $connect, $disconnect, and $default.
func HandleRequest(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return handler.HandleConnect(ctx, request)
	case "$disconnect":
		return handler.HandleDisconnect(ctx, request)
	case "$default":
		return handler.HandleDefault(ctx, request)
	default:
		return events.APIGatewayProxyResponse{StatusCode: 400},
			fmt.Errorf("unknown route key: %s", request.RequestContext.RouteKey)
	}
}

func main() {
	lambda.Start(HandleRequest)
}
