package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alantheprice/outreach/pkg/dispatch"
	"github.com/alantheprice/outreach/pkg/events"
	"github.com/alantheprice/outreach/pkg/service"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume queued campaign jobs from Kafka",
	Long: `Run the generation pipeline for every job on the configured Kafka topic.
Results are published to Redis so that whichever "outreach serve" replica
holds the user's websocket can push them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := loadCommandConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWorker(ctx, cc)
	},
}

func runWorker(ctx context.Context, cc *CommandConfig) error {
	cfg, logger := cc.Config, cc.Logger

	var deliverer events.Deliverer
	if cfg.RedisAddr != "" {
		client, err := events.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		// The worker only publishes; the hub never has subscribers here.
		deliverer = events.NewRedisRelay(client, cfg.RedisChannel, events.NewHub(), logger)
	} else {
		logger.Warnf("redis_addr not set: worker results will not reach websocket clients")
	}

	pipeline, err := buildPipeline(cc, deliverer)
	if err != nil {
		return err
	}

	handler := service.New(pipeline.Generator, pipeline.Regenerator, nil, logger)
	worker, err := dispatch.NewKafkaWorker(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, handler, logger)
	if err != nil {
		return err
	}
	defer worker.Close()

	logger.Logf("Worker consuming %s as %s", cfg.KafkaTopic, cfg.KafkaGroupID)
	return worker.Run(ctx)
}
