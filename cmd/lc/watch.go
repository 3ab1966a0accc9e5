package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/leadcommander/internal/client"
	"github.com/alfredjeanlab/leadcommander/internal/events"
	"github.com/alfredjeanlab/leadcommander/internal/ui"
)

const streamRetryDelay = 2 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream lead server events",
	Long: `Stream lead server events.

Events come from NATS when LEADS_NATS_URL (or the active remote's nats_url)
is set, and from the server's SSE stream otherwise.`,
	GroupID:           "system",
	Args:              cobra.NoArgs,
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetStringSlice("topic")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("LEADS_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, cmd.OutOrStdout(), natsURL, topics)
		}
		return watchSSE(ctx, cmd.OutOrStdout(), client.NewHTTPClient(httpURL, authToken), topics)
	},
}

// watchNATS prints every message on the given subjects. NATS subjects
// already use the same wildcards as --topic.
func watchNATS(ctx context.Context, w io.Writer, natsURL string, topics []string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats: disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	if len(topics) == 0 {
		topics = []string{events.AllTopics}
	}
	merged := make(chan events.Message)
	for _, t := range topics {
		ch, cancel, err := sub.Subscribe(t)
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", t, err)
		}
		defer cancel()
		go func() {
			for msg := range ch {
				select {
				case merged <- msg:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-merged:
			printEvent(w, time.Now(), msg.Topic, msg.Data)
		}
	}
}

// watchSSE follows the server's event stream, resuming from the last seen
// event id whenever the stream drops.
func watchSSE(ctx context.Context, w io.Writer, c *client.HTTPClient, topics []string) error {
	var lastID uint64
	for {
		err := c.StreamEvents(ctx, topics, lastID, func(e client.StreamEvent) error {
			lastID = e.ID
			printEvent(w, time.Now(), e.Topic, e.Data)
			return nil
		})
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				return err
			}
			slog.Warn("event stream dropped", "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(streamRetryDelay):
		}
	}
}

// printEvent writes one event line: time, topic and compact JSON payload.
func printEvent(w io.Writer, at time.Time, topic string, data []byte) {
	if jsonOutput {
		fmt.Fprintf(w, "{\"topic\":%q,\"data\":%s}\n", topic, compactJSON(data))
		return
	}
	fmt.Fprintf(w, "%s  %s  %s\n",
		ui.RenderMuted(at.Format("15:04:05")),
		ui.RenderAccent(topic),
		compactJSON(data))
}

func compactJSON(data []byte) string {
	var b bytes.Buffer
	if err := json.Compact(&b, data); err != nil {
		return strings.TrimSpace(string(data))
	}
	return b.String()
}

func init() {
	watchCmd.Flags().StringSlice("topic", nil, "topic pattern to follow (e.g. leads.session.*, leads.>)")
	watchCmd.Flags().String("nats", "", "NATS URL (overrides LEADS_NATS_URL)")
}
