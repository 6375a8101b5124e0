package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tmeurs/lambdahunt/internal/config"
	"github.com/tmeurs/lambdahunt/internal/hunt"
	"github.com/tmeurs/lambdahunt/internal/lambda"
	"github.com/tmeurs/lambdahunt/internal/logging"
	"github.com/tmeurs/lambdahunt/internal/notify"
	"github.com/tmeurs/lambdahunt/internal/ui"
)

var (
	findType     string
	findSSHKey   string
	findInterval int
)

// findCmd polls the capacity endpoint until the requested type becomes
// available somewhere, then launches it and waits for activation.
var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Poll for capacity, then launch when it appears",
	Long: `Continuously check whether the requested instance type has capacity in
any region. As soon as one region reports capacity, launch an instance
there and wait for it to receive a network address. Runs until capacity
appears, a fatal error occurs, or the process is interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		sshKey := findSSHKey
		if sshKey == "" {
			sshKey = cfg.DefaultSSHKey
		}
		if sshKey == "" {
			fail(fmt.Errorf("an SSH key name is required: pass --ssh or set DEFAULT_SSH_KEY"))
		}

		interval := cfg.PollInterval
		if cmd.Flags().Changed("sec") {
			interval = time.Duration(findInterval) * time.Second
		}

		opts := hunt.Options{
			PollInterval:      interval,
			ActivationTimeout: cfg.ActivationTimeout,
		}

		var acq *hunt.Acquisition
		if IsJSONOutput() || !isatty.IsTerminal(os.Stdout.Fd()) {
			acq, err = runFindPlain(cfg, client, opts, sshKey)
		} else {
			acq, err = runFindTUI(cfg, client, opts, sshKey)
		}
		if err != nil {
			fail(err)
		}
		if acq == nil {
			// Interrupted before capacity appeared.
			os.Exit(1)
		}

		webhook := notify.NewWebhookClient(cfg.WebhookURL)
		webhook.Send(context.Background(), notify.Payload{
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

// runFindPlain runs the find flow with line-based console output.
func runFindPlain(cfg *config.Config, client *lambda.Client, opts hunt.Options, sshKey string) (*hunt.Acquisition, error) {
	ctx, cancel := signalContext()
	defer cancel()

	reporter := &ConsoleReporter{Quiet: IsJSONOutput()}
	hunter := hunt.New(client, client, reporter, opts)

	if !IsJSONOutput() {
		fmt.Printf("Looking for available instances of type %s...\n", findType)
	}
	acq, err := hunter.Find(ctx, findType, sshKey)
	if ctx.Err() != nil {
		return nil, nil
	}
	return acq, err
}

// runFindTUI runs the find flow behind a live bubbletea view.
func runFindTUI(cfg *config.Config, client *lambda.Client, opts hunt.Options, sshKey string) (*hunt.Acquisition, error) {
	log := logging.Get()

	ctx, cancel := signalContext()
	defer cancel()

	program := tea.NewProgram(ui.NewFindModel(findType, opts.PollInterval))

	type findResult struct {
		acq *hunt.Acquisition
		err error
	}
	resultCh := make(chan findResult, 1)

	go func() {
		hunter := hunt.New(client, client, ui.NewTeaReporter(program), opts)
		acq, err := hunter.Find(ctx, findType, sshKey)
		resultCh <- findResult{acq: acq, err: err}
		program.Send(ui.DoneMsg{Err: err})
	}()

	finalModel, err := program.Run()
	cancel()
	if err != nil {
		return nil, fmt.Errorf("terminal UI failed: %w", err)
	}

	if m, ok := finalModel.(ui.FindModel); ok && m.Cancelled() {
		log.Info().Msg("Find interrupted by user")
		return nil, nil
	}

	result := <-resultCh
	return result.acq, result.err
}

func init() {
	findCmd.Flags().StringVarP(&findType, "gpu", "g", "", "Instance type to hunt for (e.g. gpu_1x_a10)")
	findCmd.Flags().StringVarP(&findSSHKey, "ssh", "s", "", "SSH key name to authorize")
	findCmd.Flags().IntVar(&findInterval, "sec", config.DefaultPollIntervalSeconds, "Seconds between capacity checks")
	findCmd.MarkFlagRequired("gpu")
	rootCmd.AddCommand(findCmd)
}
