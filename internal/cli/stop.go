package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmeurs/lambdahunt/internal/notify"
)

var stopInstanceID string

// stopCmd terminates an instance by ID. Fire-and-forget: success is any
// non-error response; the instance status is not re-queried.
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Terminate an instance",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := client.Terminate(ctx, stopInstanceID); err != nil {
			fail(err)
		}

		webhook := notify.NewWebhookClient(cfg.WebhookURL)
		webhook.Send(ctx, notify.Payload{
			Event:      notify.EventTerminated,
			InstanceID: stopInstanceID,
		})

		if IsJSONOutput() {
			PrintJSON(map[string]string{
				"status":      "stopped",
				"instance_id": stopInstanceID,
			})
			return
		}
		fmt.Printf("Instance %s stopped\n", stopInstanceID)
	},
}

func init() {
	stopCmd.Flags().StringVarP(&stopInstanceID, "gpu", "g", "", "Instance ID to terminate")
	stopCmd.MarkFlagRequired("gpu")
	rootCmd.AddCommand(stopCmd)
}
