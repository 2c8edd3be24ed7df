package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"bookstore-admin/internal/bootstrap"
	"bookstore-admin/internal/shared/config"
	"bookstore-admin/internal/shared/metrics"
	"bookstore-admin/internal/shared/telemetry"
	"bookstore-admin/internal/workerproc"
)

const (
	defaultVisibilitySeconds  = 120
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)

	queueURL := strings.TrimSpace(cfg.CatalogQueueURL)
	if queueURL == "" {
		telemetry.Error("worker.config_invalid", map[string]any{"error": "CATALOG_SQS_QUEUE_URL is required"})
		os.Exit(1)
	}
	region := cfg.AWSRegion
	if region == "" {
		region = "us-east-1"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("WORKER_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("WORKER_SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		telemetry.Error("worker.aws_config_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": err})
		os.Exit(1)
	}

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue":       queueURL,
		"concurrency": concurrency,
		"visibility":  visibilitySeconds,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncOrphanNoticesReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, sqsClient, queueURL, app.AssetsService, m)
			}(msg)
		}
	}

	telemetry.Info("worker.shutdown_requested", map[string]any{"timeout": shutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		telemetry.Warn("worker.shutdown_timeout", nil)
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func handleMessage(ctx context.Context, client sqsAPI, queueURL string, marker workerproc.StatusMarker, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, "")
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()

		var (
			emptyErr   workerproc.ErrEmptyBody
			kindErr    workerproc.ErrUnknownKind
			missingErr workerproc.ErrMissingAssetIDs
		)
		switch {
		case errors.As(err, &emptyErr):
			telemetry.Error("worker.notice.empty_body", fields)
		case errors.As(err, &kindErr):
			fields["kind"] = kindErr.Kind
			telemetry.Error("worker.notice.unknown_kind", fields)
		case errors.As(err, &missingErr):
			fields["request_id"] = missingErr.RequestID
			telemetry.Error("worker.notice.missing_ids", fields)
		default:
			telemetry.Error("worker.notice.decode_failed", fields)
		}
		if deleteMessage(ctx, client, queueURL, msg, "") {
			metrics.IncOrphanNoticesDropped()
		}
		return
	}

	telemetry.Info("worker.notice.received", baseFields(msg, decoded.RequestID))

	ctxWithParsed := workerproc.WithParsedMessage(ctx, decoded)
	if err := workerproc.HandleMessage(ctxWithParsed, marker, body); err != nil {
		fields := baseFields(msg, decoded.RequestID)
		fields["asset_ids"] = decoded.AssetIDs
		fields["error"] = err.Error()
		telemetry.Error("worker.notice.failed", fields)
		metrics.IncOrphanNoticesFailed()
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded.RequestID) {
		telemetry.Info("worker.notice.completed", baseFields(msg, decoded.RequestID))
		metrics.IncOrphanNoticesCompleted()
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.notice.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.notice.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, requestID string) map[string]any {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
