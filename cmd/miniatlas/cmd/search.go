package cmd

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"miniatlas/internal/domain"
	"miniatlas/internal/eventbus"
	"miniatlas/internal/search"
	"miniatlas/internal/ui/views"
)

var (
	searchExplain bool
	searchLimit   int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank countries against a query",
	Long:  "Ranks countries by name prefix, word prefix, code prefix, capital prefix, then all-token matches.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchExplain, "explain", false, "show why each country matched")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "show at most n results (0 = all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := loadDataset(cfg, eventbus.NullBus{})
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	matches := search.NewRanker(cfg.Search.Language).Matches(data.Countries, query)
	if searchLimit > 0 && len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}

	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintf(out, "no countries match %q\n", query)
		return nil
	}

	countries := lo.Map(matches, func(m search.Match, _ int) domain.Country { return m.Country })
	var classes []string
	if searchExplain {
		classes = lo.Map(matches, func(m search.Match, _ int) string { return m.Class.String() })
	}
	fmt.Fprintln(out, views.CountryTable(countries, classes))
	return nil
}
