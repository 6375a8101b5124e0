package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmeurs/lambdahunt/internal/ui"
)

// listCmd lists the instance-type catalog.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List instance types with available capacity",
	Long:  `Fetch the instance-type catalog and show every type that currently has capacity in at least one region.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		offers, err := client.ListOffers(ctx)
		if err != nil {
			fail(err)
		}

		if IsJSONOutput() {
			entries := make([]CatalogEntry, 0, len(offers))
			for name, offer := range offers {
				if !offer.HasCapacity() {
					continue
				}
				regions := make([]string, 0, len(offer.RegionsWithCapacity))
				for _, r := range offer.RegionsWithCapacity {
					regions = append(regions, r.Name)
				}
				entries = append(entries, CatalogEntry{
					Name:              name,
					Description:       offer.InstanceType.Description,
					PriceCentsPerHour: offer.InstanceType.PriceCentsPerHour,
					VCPUs:             offer.InstanceType.Specs.VCPUs,
					MemoryGiB:         offer.InstanceType.Specs.MemoryGiB,
					StorageGiB:        offer.InstanceType.Specs.StorageGiB,
					Regions:           regions,
				})
			}
			sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
			PrintJSON(entries)
			return
		}

		fmt.Print(ui.RenderCatalog(offers))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
