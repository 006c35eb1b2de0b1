package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vrpipe/vrpipe/pkg/vrpipe"
)

// listenCmd represents the listen command
var listenCmd = &cobra.Command{
	Use:   "listen [tags...]",
	Short: "Connect to the pipeline and print events",
	Long: `Connect to the realtime pipeline and print decoded events to stdout
as JSON, one per line.

Arguments are subscription tags, atomic or meta. With no tags, everything
is delivered.

Examples:
  vrpipe listen --auth-token "$TOKEN"
  vrpipe listen --auth-token "$TOKEN" friend
  vrpipe listen --auth-token "$TOKEN" friend-online notification-v2`,
	RunE: runListen,
}

var (
	authToken  string
	endpoint   string
	userAgent  string
	accountTag string
)

func init() {
	rootCmd.AddCommand(listenCmd)

	listenCmd.Flags().StringVar(&authToken, "auth-token", "", "session auth token (or VRPIPE_AUTH_TOKEN)")
	listenCmd.Flags().StringVar(&endpoint, "endpoint", "", "explicit pipeline endpoint URL (overrides token-derived endpoint)")
	listenCmd.Flags().StringVar(&userAgent, "user-agent", "vrpipe/0.1 (+https://github.com/vrpipe/vrpipe)", "user-agent header")
	listenCmd.Flags().StringVar(&accountTag, "account", "cli", "account label used in logs")
}

func runListen(cmd *cobra.Command, args []string) error {
	logger, err := setupLogger()
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	defer logger.Sync()

	if authToken == "" {
		authToken = os.Getenv("VRPIPE_AUTH_TOKEN")
	}
	if authToken == "" && endpoint == "" {
		return fmt.Errorf("an auth token (--auth-token or VRPIPE_AUTH_TOKEN) or an explicit --endpoint is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enc := json.NewEncoder(os.Stdout)
	printEvent := func(ctx context.Context, ev vrpipe.Event) {
		out := struct {
			Tag   string       `json:"tag"`
			Event vrpipe.Event `json:"event"`
		}{Tag: ev.EventTag(), Event: ev}
		if err := enc.Encode(out); err != nil {
			logger.Error("failed to encode event", zap.Error(err))
		}
	}

	builder := vrpipe.NewClient().
		WithLogger(logger).
		WithSubscriptions(args...).
		OnEvent(vrpipe.MetaAll, printEvent)

	if endpoint != "" {
		builder = builder.WithEndpoint(endpoint).WithUserAgent(userAgent)
	} else {
		builder = builder.WithCredentials(&vrpipe.StaticCredentials{
			Token: authToken,
			Agent: userAgent,
			Name:  accountTag,
		})
	}

	client, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to create pipeline client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	logger.Info("listening for pipeline events", zap.Strings("tags", args))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	return client.Close()
}
