package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmeurs/lambdahunt/internal/hunt"
	"github.com/tmeurs/lambdahunt/internal/lambda"
)

// renderTable renders headers and rows as a padded column table. Cell
// styles are applied per column after padding so ANSI sequences do not
// disturb alignment.
func renderTable(headers []string, rows [][]string, cellStyles []lipgloss.Style) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(Styles.TableHeader.Render(pad(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			style := Styles.TableCell
			if i < len(cellStyles) {
				style = cellStyles[i]
			}
			b.WriteString(style.Render(pad(cell, widths[i])))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pad pads by display width, not byte length, so multibyte text in
// region and description columns keeps the columns aligned.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// RenderCatalog renders the instance-type catalog. Only types with at
// least one region of capacity are shown, sorted by name.
func RenderCatalog(offers map[string]lambda.Offer) string {
	names := make([]string, 0, len(offers))
	for name, offer := range offers {
		if offer.HasCapacity() {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return Styles.Muted.Render("No instance types currently have capacity.") + "\n"
	}

	headers := []string{"Instance Type", "Description", "Price (cents/hr)", "vCPUs", "Memory (GiB)", "Storage (GiB)", "Available Regions"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		offer := offers[name]
		regions := make([]string, 0, len(offer.RegionsWithCapacity))
		for _, r := range offer.RegionsWithCapacity {
			regions = append(regions, fmt.Sprintf("%s (%s)", r.Name, r.Description))
		}
		rows = append(rows, []string{
			name,
			offer.InstanceType.Description,
			fmt.Sprintf("%d", offer.InstanceType.PriceCentsPerHour),
			fmt.Sprintf("%d", offer.InstanceType.Specs.VCPUs),
			fmt.Sprintf("%d", offer.InstanceType.Specs.MemoryGiB),
			fmt.Sprintf("%d", offer.InstanceType.Specs.StorageGiB),
			strings.Join(regions, ", "),
		})
	}

	styles := []lipgloss.Style{
		Styles.Type, Styles.TableCell, Styles.Price, Styles.TableCell,
		Styles.TableCell, Styles.TableCell, Styles.Region,
	}
	return renderTable(headers, rows, styles)
}

// RenderInstances renders the running-instance list.
func RenderInstances(instances []lambda.Instance) string {
	if len(instances) == 0 {
		return Styles.Muted.Render("No running instances.") + "\n"
	}

	headers := []string{"Instance ID", "Status", "IP Address", "SSH Key Names"}
	rows := make([][]string, 0, len(instances))
	for _, inst := range instances {
		rows = append(rows, []string{
			orDash(inst.ID),
			orDash(inst.Status),
			orDash(inst.IP),
			orDash(strings.Join(inst.SSHKeyNames, ", ")),
		})
	}

	styles := []lipgloss.Style{
		Styles.Type, Styles.Price, Styles.Region, Styles.TableCell,
	}
	return renderTable(headers, rows, styles)
}

// RenderPollStatus renders one poll tick as a status table.
func RenderPollStatus(status hunt.PollStatus) string {
	headers := []string{"Last Checked", "Status", "Next Check In (s)"}
	rows := [][]string{{
		status.CheckedAt.Format("2006-01-02 15:04:05"),
		status.Outcome,
		fmt.Sprintf("%d", int(status.NextCheckIn.Seconds())),
	}}
	styles := []lipgloss.Style{Styles.TableCell, Styles.Error, Styles.Price}
	return renderTable(headers, rows, styles)
}

// RenderSSHKeys renders the registered SSH keys.
func RenderSSHKeys(keys []lambda.SSHKey) string {
	if len(keys) == 0 {
		return Styles.Muted.Render("No SSH keys registered.") + "\n"
	}

	headers := []string{"ID", "Name"}
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{orDash(key.ID), orDash(key.Name)})
	}
	return renderTable(headers, rows, []lipgloss.Style{Styles.TableCell, Styles.Type})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
