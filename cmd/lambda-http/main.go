package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"bookstore-admin/internal/bootstrap"
	"bookstore-admin/internal/shared/config"
	"bookstore-admin/internal/shared/server/respond"
	"bookstore-admin/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	app       *bootstrap.App
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)
	app, initErr = bootstrap.Build(cfg)
	if initErr != nil {
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func errorResponse(code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{Code: code, Message: message}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr})
		return errorResponse("bootstrap_failed", "service unavailable"), initErr
	}
	if ginLambda == nil {
		return errorResponse(respond.CodeInternal, "router not initialized"), nil
	}
	// The container is frozen between invocations, so the janitor cannot run
	// on a ticker here. Expired form sessions are swept per request instead.
	if n := app.Forms.Sweep(); n > 0 {
		telemetry.Info("lambda.forms_swept", map[string]any{"expired": n})
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
