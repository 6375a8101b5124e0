package cli

import (
	"fmt"
	"strings"

	"github.com/tmeurs/lambdahunt/internal/hunt"
	"github.com/tmeurs/lambdahunt/internal/lambda"
	"github.com/tmeurs/lambdahunt/internal/logging"
)

// ConsoleReporter renders acquisition progress as plain console lines.
// Used by start, and by find when the TUI is disabled.
type ConsoleReporter struct {
	// Quiet suppresses console output (JSON mode); events still go to the log.
	Quiet bool
}

func (r *ConsoleReporter) StateChange(state hunt.State) {
	logging.Get().Debug().Str("state", state.String()).Msg("State change")
}

func (r *ConsoleReporter) PollTick(status hunt.PollStatus) {
	logging.Get().Info().
		Str("outcome", status.Outcome).
		Int("attempt", status.Attempt).
		Dur("next_check_in", status.NextCheckIn).
		Msg("Poll tick")
	if r.Quiet {
		return
	}
	fmt.Printf("[%s] %s, next check in %ds\n",
		status.CheckedAt.Format("2006-01-02 15:04:05"),
		status.Outcome,
		int(status.NextCheckIn.Seconds()))
}

func (r *ConsoleReporter) Found(typeName string, regions []lambda.Region) {
	if r.Quiet {
		return
	}
	names := make([]string, 0, len(regions))
	for _, region := range regions {
		names = append(names, fmt.Sprintf("%s (%s)", region.Name, region.Description))
	}
	fmt.Printf("Found available %s in region(s): %s\n", typeName, strings.Join(names, ", "))
}

func (r *ConsoleReporter) Launched(instanceID, typeName, regionName string) {
	if r.Quiet {
		return
	}
	fmt.Printf("Instance %s started in region %s. Waiting for it to become active...\n", instanceID, regionName)
}

func (r *ConsoleReporter) Endpoint(instance *lambda.Instance) {
	if r.Quiet {
		return
	}
	fmt.Printf("Instance is active. SSH IP: %s\n", instance.IP)
}

func (r *ConsoleReporter) AddressPending(instance *lambda.Instance) {
	if r.Quiet {
		return
	}
	fmt.Println("Instance is active, but IP address is not available yet.")
}
