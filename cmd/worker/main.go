package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"outreach-engine/internal/adapter"
	"outreach-engine/internal/bundle"
	"outreach-engine/internal/config"
	"outreach-engine/internal/events"
	"outreach-engine/internal/pacing"
	"outreach-engine/internal/queue"
	"outreach-engine/internal/stage"
	"outreach-engine/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rec := events.NewSlogRecorder(slog.New(slog.NewJSONHandler(os.Stdout, nil)), cfg.Env)

	client, err := queue.Dial(ctx, cfg)
	if err != nil {
		log.Fatalf("redis connect failed: %v", err)
	}
	rec.Record(events.Event{Kind: events.KindRedisStatus, Reason: "connected"})

	broker := queue.NewBroker(client, queue.Defaults(cfg.MaxJobAttempts, cfg.BackoffBase, cfg.BackoffCap))
	broker.EnsureGroups(ctx)
	s := store.New(client)

	var s3Client bundle.S3API
	awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if awsErr == nil {
		s3Client = s3.NewFromConfig(awsCfg)
	}
	bundles := bundle.NewLoader(s3Client, cfg.S3Bucket, cfg.S3ConfigKey, cfg.EncryptionKey, rec)

	deps := stage.BuilderDeps{
		Bundle:       bundles,
		Sleeper:      pacing.Real{},
		ContactEmail: cfg.ContactEmail,
		ContactPhone: cfg.ContactPhone,
	}
	var notifier adapter.Notifier
	var webhook adapter.WebhookSender = adapter.NewHTTPWebhook()

	if cfg.Production() {
		if awsErr != nil {
			log.Fatalf("load aws config: %v", awsErr)
		}
		email, err := adapter.NewSESEmail(awsCfg, cfg.EmailFrom)
		if err != nil {
			log.Fatalf("init email adapter: %v", err)
		}
		gateway := adapter.NewVoiceGateway(cfg.VoiceGatewayURL, cfg.ContactPhone)
		deps.Email = email
		deps.Chat = adapter.NewHTTPChat(cfg.ChatWebhookURL)
		deps.Voice = gateway
		deps.SMS = gateway
		notifier = adapter.NewHTTPNotifier(cfg.EscalationWebhookURL)
	} else {
		deps.Email = adapter.MockEmail{Rec: rec}
		deps.Chat = adapter.MockChat{Rec: rec}
		deps.Voice = adapter.MockVoice{Rec: rec}
		deps.SMS = adapter.MockSMS{Rec: rec}
		notifier = adapter.MockNotifier{Rec: rec}
	}

	runtime := queue.NewRuntime(broker, s, rec, cfg.Concurrency)

	runtime.Bind(ctx, queue.Main, "main", stage.Intake())
	runtime.Bind(ctx, queue.Controller, "controller", stage.Controller())
	runtime.Bind(ctx, queue.ChannelSelector, "selector", stage.Selector())
	runtime.Bind(ctx, queue.MessageBuilder, "builder", stage.Builder(deps))
	runtime.Bind(ctx, queue.ResponseParser, "parser", stage.Parser(bundles))
	runtime.Bind(ctx, queue.FollowUp, "followup", stage.FollowUp(time.Now))
	runtime.Bind(ctx, queue.Escalation, "escalation", stage.Escalate(notifier))
	runtime.Bind(ctx, queue.Completion, "completion", stage.Complete(webhook, cfg.OutcomeWebhookURL, rec, time.Now))

	queue.StartScheduler(ctx, broker, s, rec)
	queue.StartRetryManager(ctx, broker, s, rec)

	rec.Record(events.Event{Kind: events.KindSystemReady})

	<-ctx.Done()
	log.Println("worker: shutting down")
}
