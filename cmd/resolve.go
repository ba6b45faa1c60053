package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rulekit/internal/domain/rulechain"
	"github.com/zjrosen/rulekit/internal/presentation"
)

var resolveChain string

var resolveCmd = &cobra.Command{
	Use:   "resolve [rule-chain-id...]",
	Short: "Resolve rule chain references",
	Long: `Resolve rule chain ids into rule chain entities. Ids that cannot be
fetched are reported as placeholders rather than failing the command.

Examples:
  # Resolve explicit targets
  rulekit resolve 5b5a3c3e-6f1d-4d8e-9a4b-0c1d2e3f4a51 5b5a3c3e-6f1d-4d8e-9a4b-0c1d2e3f4a52

  # Resolve every rule chain a stored chain forwards to
  rulekit resolve --chain 5b5a3c3e-6f1d-4d8e-9a4b-0c1d2e3f4a51`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if resolveChain == "" && len(args) == 0 {
			return errors.New("provide rule chain ids or --chain")
		}

		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		var resolved rulechain.ResolvedMap
		if resolveChain != "" {
			resolved, err = rt.resolver.ResolveChain(cmd.Context(), resolveChain)
		} else {
			links := make([]rulechain.LinkReference, len(args))
			for i, id := range args {
				links[i] = rulechain.Link(id)
			}
			resolved, err = rt.resolver.ResolveTargets(cmd.Context(), links)
		}
		if err != nil {
			return fmt.Errorf("resolving: %w", err)
		}

		return presentation.NewFormatter(cmd.OutOrStdout()).FormatResolved(presentation.FromResolvedMap(resolved))
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveChain, "chain", "", "Resolve the rule chain connections of this chain")
	rootCmd.AddCommand(resolveCmd)
}
