package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmeurs/lambdahunt/internal/ui"
)

// runningCmd lists all instances known to the provider.
var runningCmd = &cobra.Command{
	Use:   "running",
	Short: "List running instances",
	Run: func(cmd *cobra.Command, args []string) {
		_, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		instances, err := client.ListInstances(ctx)
		if err != nil {
			fail(err)
		}

		if IsJSONOutput() {
			out := make([]InstanceOutput, 0, len(instances))
			for _, inst := range instances {
				out = append(out, InstanceOutput{
					ID:          inst.ID,
					Status:      inst.Status,
					IP:          inst.IP,
					SSHKeyNames: inst.SSHKeyNames,
				})
			}
			PrintJSON(out)
			return
		}

		fmt.Print(ui.RenderInstances(instances))
	},
}

func init() {
	rootCmd.AddCommand(runningCmd)
}
