package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"bookstore-admin/internal/bootstrap"
	"bookstore-admin/internal/shared/config"
	"bookstore-admin/internal/shared/metrics"
	"bookstore-admin/internal/shared/telemetry"
	"bookstore-admin/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr})
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncOrphanNoticesReceived()
		err := workerproc.HandleMessage(ctx, app.AssetsService, record.Body)
		switch {
		case err == nil:
			metrics.IncOrphanNoticesCompleted()
		case workerproc.Permanent(err):
			// redelivery cannot fix a malformed notice; let the batch drop it.
			metrics.IncOrphanNoticesDropped()
			telemetry.Error("worker.notice_dropped", map[string]any{"sqs_message_id": record.MessageId, "error": err})
		default:
			metrics.IncOrphanNoticesFailed()
			telemetry.Error("worker.notice_failed", map[string]any{"sqs_message_id": record.MessageId, "error": err})
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
