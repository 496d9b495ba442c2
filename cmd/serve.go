package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alantheprice/outreach/pkg/config"
	"github.com/alantheprice/outreach/pkg/dispatch"
	"github.com/alantheprice/outreach/pkg/events"
	"github.com/alantheprice/outreach/pkg/service"
	"github.com/alantheprice/outreach/pkg/webui"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the campaign API and websocket push",
	Long: `Start the HTTP server. POST /api/campaign and /api/campaign/regenerate
acknowledge a job immediately; the result is pushed to the caller's websocket
connection on /ws.

With dispatch "inprocess" jobs run on this process. With dispatch "kafka" they
are published to the configured topic for "outreach worker" to consume, and
results come back through Redis when redis_addr is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc, err := loadCommandConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cc.Config.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cc)
	},
}

func runServer(ctx context.Context, cc *CommandConfig) error {
	cfg, logger := cc.Config, cc.Logger
	hub := events.NewHub()

	var deliverer events.Deliverer = hub
	if cfg.RedisAddr != "" {
		client, err := events.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()

		relay := events.NewRedisRelay(client, cfg.RedisChannel, hub, logger)
		go func() {
			if err := relay.Run(ctx); err != nil {
				logger.LogError(err)
			}
		}()
		deliverer = relay
	}

	pipeline, err := buildPipeline(cc, deliverer)
	if err != nil {
		return err
	}

	var dispatcher dispatch.Dispatcher
	switch cfg.Dispatch {
	case config.DispatchKafka:
		kd, err := dispatch.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		dispatcher = kd
	default:
		dispatcher = dispatch.NewInProcess(logger)
	}
	defer dispatcher.Close()

	handler := service.New(pipeline.Generator, pipeline.Regenerator, dispatcher, logger)
	if inProcess, ok := dispatcher.(*dispatch.InProcess); ok {
		inProcess.Bind(handler)
	}

	server := webui.NewServer(handler, hub, nil, cfg.Port, logger)
	if err := server.Start(ctx); err != nil {
		return err
	}
	logger.Logf("Serving on :%d with %s dispatch", server.GetPort(), cfg.Dispatch)
	fmt.Printf("outreach listening on :%d (dispatch: %s)\n", server.GetPort(), cfg.Dispatch)

	<-ctx.Done()
	logger.Log("Shutting down")
	return server.Shutdown()
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
}
