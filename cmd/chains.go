package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rulekit/internal/domain/rulechain"
	"github.com/zjrosen/rulekit/internal/infrastructure/rest"
	"github.com/zjrosen/rulekit/internal/presentation"
)

var (
	chainsLimit  int
	chainsSearch string
	chainsAll    bool
)

var chainsListCmd = &cobra.Command{
	Use:   "chains:list",
	Short: "List rule chains",
	Long: `List rule chains from the server as JSON.

Examples:
  rulekit chains:list --limit 20
  rulekit chains:list --search thermo
  rulekit chains:list --all | jq '.[].name'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if chainsLimit <= 0 {
			return fmt.Errorf("--limit must be positive, got %d", chainsLimit)
		}

		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		page := rulechain.PageLink{Limit: chainsLimit, TextSearch: chainsSearch}
		var chains []rulechain.RuleChain
		for {
			data, err := rt.ruleChains.ListRuleChains(cmd.Context(), page, rest.RequestConfig{})
			if err != nil {
				return fmt.Errorf("listing rule chains: %w", err)
			}
			chains = append(chains, data.Data...)
			if !chainsAll || !data.HasNext || data.NextPageLink == nil {
				break
			}
			page = *data.NextPageLink
		}
		if chains == nil {
			chains = []rulechain.RuleChain{}
		}

		return presentation.NewFormatter(cmd.OutOrStdout()).FormatJSON(chains)
	},
}

func init() {
	chainsListCmd.Flags().IntVarP(&chainsLimit, "limit", "n", 50, "Page size")
	chainsListCmd.Flags().StringVarP(&chainsSearch, "search", "s", "", "Text search on the chain name")
	chainsListCmd.Flags().BoolVar(&chainsAll, "all", false, "Follow next page links until exhausted")
	rootCmd.AddCommand(chainsListCmd)
}
