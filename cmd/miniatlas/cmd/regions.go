package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"miniatlas/internal/dataset"
	"miniatlas/internal/eventbus"
	"miniatlas/internal/ui/views"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions and dataset insights",
	Args:  cobra.NoArgs,
	RunE:  runRegions,
}

func runRegions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := loadDataset(cfg, eventbus.NullBus{})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, r := range dataset.Regions(data.Countries) {
		fmt.Fprintf(out, "%d  %-10s %4d countries\n", i+1, r.Name, len(r.Codes))
	}

	in := dataset.Summarize(data.Countries)
	fmt.Fprintf(out, "\n%d countries · %d regions · population %s · %d with capitals\n",
		in.Countries, in.Regions, views.FormatPopulation(in.Population), in.WithCapitals)
	if data.Dropped > 0 {
		fmt.Fprintf(out, "%d records dropped from %s\n", data.Dropped, data.Source)
	}
	return nil
}
