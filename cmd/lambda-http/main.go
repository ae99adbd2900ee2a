package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"profile-backend/internal/bootstrap"
	"profile-backend/internal/shared/config"
	"profile-backend/internal/shared/telemetry"
)

// coldStart holds everything built once per Lambda container.
type coldStart struct {
	once    sync.Once
	err     error
	adapter *ginadapter.GinLambdaV2
}

var container coldStart

func (c *coldStart) init(ctx context.Context) {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	// Spans are flushed by the batcher; the provider lives as long as the container.
	if _, err := telemetry.SetupTracing(ctx, "profile-backend-lambda", cfg.OTelEndpoint, cfg.OTelEnabled); err != nil {
		telemetry.Warn("tracing.setup_failed", map[string]any{"error": err.Error()})
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		c.err = err
		return
	}
	c.adapter = ginadapter.NewV2(app.Router)
	telemetry.Info("lambda.cold_start", map[string]any{"env": cfg.Env, "db": app.DB != nil})
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	container.once.Do(func() { container.init(ctx) })
	if container.err != nil {
		fields := map[string]any{"error": container.err.Error()}
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			fields["aws_request_id"] = lc.AwsRequestID
		}
		telemetry.Error("lambda.bootstrap_failed", fields)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":{"code":"bootstrap_failed","message":"service unavailable"}}`,
			Headers:    map[string]string{"Content-Type": "application/json"},
		}, nil
	}
	// The proxy buffers the whole response, so exports are delivered in one piece here.
	return container.adapter.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
