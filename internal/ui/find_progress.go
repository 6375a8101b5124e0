package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmeurs/lambdahunt/internal/hunt"
	"github.com/tmeurs/lambdahunt/internal/lambda"
)

// Messages sent into the find view by the reporter adapter.
type (
	// StateMsg reports a phase transition of the acquisition run.
	StateMsg struct{ State hunt.State }

	// PollTickMsg reports one capacity check that found nothing.
	PollTickMsg struct{ Status hunt.PollStatus }

	// FoundMsg reports that capacity appeared.
	FoundMsg struct {
		TypeName string
		Regions  []lambda.Region
	}

	// LaunchedMsg reports a successful launch request.
	LaunchedMsg struct {
		InstanceID string
		TypeName   string
		RegionName string
	}

	// EndpointMsg reports the assigned network address.
	EndpointMsg struct{ Instance *lambda.Instance }

	// PendingMsg reports activation ended without an address.
	PendingMsg struct{ Instance *lambda.Instance }

	// DoneMsg ends the view; Err is nil on success.
	DoneMsg struct{ Err error }
)

// TeaReporter adapts a bubbletea program to the hunt.Reporter interface.
// It forwards every event to the running program.
type TeaReporter struct {
	program *tea.Program
}

// NewTeaReporter creates a reporter that feeds the given program.
func NewTeaReporter(p *tea.Program) *TeaReporter {
	return &TeaReporter{program: p}
}

func (r *TeaReporter) StateChange(state hunt.State) {
	r.program.Send(StateMsg{State: state})
}

func (r *TeaReporter) PollTick(status hunt.PollStatus) {
	r.program.Send(PollTickMsg{Status: status})
}

func (r *TeaReporter) Found(typeName string, regions []lambda.Region) {
	r.program.Send(FoundMsg{TypeName: typeName, Regions: regions})
}

func (r *TeaReporter) Launched(instanceID, typeName, regionName string) {
	r.program.Send(LaunchedMsg{InstanceID: instanceID, TypeName: typeName, RegionName: regionName})
}

func (r *TeaReporter) Endpoint(instance *lambda.Instance) {
	r.program.Send(EndpointMsg{Instance: instance})
}

func (r *TeaReporter) AddressPending(instance *lambda.Instance) {
	r.program.Send(PendingMsg{Instance: instance})
}

// FindModel is the bubbletea model for the live find view.
type FindModel struct {
	typeName string
	interval time.Duration

	spinner spinner.Model

	state      hunt.State
	lastTick   *hunt.PollStatus
	regions    []lambda.Region
	instanceID string
	regionName string
	instance   *lambda.Instance
	pending    bool

	err       error
	done      bool
	cancelled bool
	startedAt time.Time
}

// NewFindModel creates the find view for the given instance type.
func NewFindModel(typeName string, interval time.Duration) FindModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Spinner

	return FindModel{
		typeName:  typeName,
		interval:  interval,
		spinner:   s,
		state:     hunt.StateSearching,
		startedAt: time.Now(),
	}
}

// Cancelled reports whether the user interrupted the view.
func (m FindModel) Cancelled() bool {
	return m.cancelled
}

// Init implements tea.Model.
func (m FindModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m FindModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateMsg:
		m.state = msg.State
		return m, nil

	case PollTickMsg:
		status := msg.Status
		m.lastTick = &status
		return m, nil

	case FoundMsg:
		m.regions = msg.Regions
		return m, nil

	case LaunchedMsg:
		m.instanceID = msg.InstanceID
		m.regionName = msg.RegionName
		return m, nil

	case EndpointMsg:
		m.instance = msg.Instance
		return m, nil

	case PendingMsg:
		m.instance = msg.Instance
		m.pending = true
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m FindModel) View() string {
	var b strings.Builder

	b.WriteString(Styles.Title.Render("lambdahunt"))
	b.WriteString(Styles.Muted.Render(fmt.Sprintf("  hunting %s for %s", m.typeName, elapsed(m.startedAt))))
	b.WriteString("\n\n")

	switch m.state {
	case hunt.StateSearching:
		b.WriteString(fmt.Sprintf("%s Searching for capacity (every %ds)...\n\n",
			m.spinner.View(), int(m.interval.Seconds())))
		if m.lastTick != nil {
			b.WriteString(RenderPollStatus(*m.lastTick))
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("\nAttempt %d", m.lastTick.Attempt)))
			b.WriteString("\n")
		}

	case hunt.StateLaunching:
		b.WriteString(m.foundLine())
		b.WriteString(fmt.Sprintf("%s Launching...\n", m.spinner.View()))

	case hunt.StateAwaitingActivation:
		b.WriteString(m.foundLine())
		b.WriteString(Styles.Success.Render(fmt.Sprintf("✓ Instance %s started in region %s\n", m.instanceID, m.regionName)))
		b.WriteString(fmt.Sprintf("%s Waiting for activation...\n", m.spinner.View()))

	case hunt.StateDone:
		b.WriteString(m.foundLine())
		b.WriteString(Styles.Success.Render(fmt.Sprintf("✓ Instance %s started in region %s\n", m.instanceID, m.regionName)))
		if m.instance != nil && m.instance.HasAddress() {
			b.WriteString(Styles.Endpoint.Render(fmt.Sprintf("✓ Instance is active. SSH IP: %s\n", m.instance.IP)))
		} else if m.pending {
			b.WriteString(Styles.Warning.Render("Instance is active, but IP address is not available yet.\n"))
		}

	case hunt.StateFailed:
		if m.err != nil {
			b.WriteString(Styles.Error.Render(fmt.Sprintf("✗ %v\n", m.err)))
		} else {
			b.WriteString(Styles.Error.Render("✗ Acquisition failed\n"))
		}
	}

	if !m.done {
		b.WriteString(Styles.Muted.Render("\nPress q or ctrl+c to abort.\n"))
	}

	return b.String()
}

func (m FindModel) foundLine() string {
	if len(m.regions) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.regions))
	for _, r := range m.regions {
		names = append(names, r.Name)
	}
	return Styles.Success.Render(fmt.Sprintf("✓ Capacity found in: %s\n", strings.Join(names, ", ")))
}

func elapsed(since time.Time) string {
	d := time.Since(since).Round(time.Second)
	return d.String()
}
