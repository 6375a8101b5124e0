package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmeurs/lambdahunt/internal/hunt"
	"github.com/tmeurs/lambdahunt/internal/notify"
)

var (
	startType   string
	startSSHKey string
)

// startCmd launches an instance immediately: one capacity query picks the
// region, then the shared launch-and-wait sequence runs.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Launch an instance of the given type",
	Long: `Launch one instance of the given type into the first region the
catalog currently reports capacity in, then wait for it to receive a
network address.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		sshKey := startSSHKey
		if sshKey == "" {
			sshKey = cfg.DefaultSSHKey
		}
		if sshKey == "" {
			fail(fmt.Errorf("an SSH key name is required: pass --ssh or set DEFAULT_SSH_KEY"))
		}

		ctx, cancel := signalContext()
		defer cancel()

		reporter := &ConsoleReporter{Quiet: IsJSONOutput()}
		hunter := hunt.New(client, client, reporter, hunt.Options{
			PollInterval:      cfg.PollInterval,
			ActivationTimeout: cfg.ActivationTimeout,
		})

		acq, err := hunter.Start(ctx, startType, sshKey)
		if err != nil {
			fail(err)
		}

		webhook := notify.NewWebhookClient(cfg.WebhookURL)
		webhook.Send(ctx, notify.Payload{
			Event:        notify.EventAcquired,
			InstanceID:   acq.InstanceID,
			InstanceType: acq.TypeName,
			Region:       acq.Region,
			IP:           acq.Instance.IP,
		})

		if IsJSONOutput() {
			PrintJSON(acquisitionOutput(acq))
		}
	},
}

// acquisitionOutput converts an acquisition to its JSON output shape.
func acquisitionOutput(acq *hunt.Acquisition) AcquisitionOutput {
	status := "address_pending"
	if acq.Connectable() {
		status = "active"
	}
	return AcquisitionOutput{
		Status:       status,
		InstanceID:   acq.InstanceID,
		InstanceType: acq.TypeName,
		Region:       acq.Region,
		IP:           acq.Instance.IP,
	}
}

func init() {
	startCmd.Flags().StringVarP(&startType, "gpu", "g", "", "Instance type to launch (e.g. gpu_1x_a10)")
	startCmd.Flags().StringVarP(&startSSHKey, "ssh", "s", "", "SSH key name to authorize")
	startCmd.MarkFlagRequired("gpu")
	rootCmd.AddCommand(startCmd)
}
