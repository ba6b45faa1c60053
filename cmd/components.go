package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/rulekit/internal/config"
	"github.com/zjrosen/rulekit/internal/domain/rulenode"
	"github.com/zjrosen/rulekit/internal/presentation"
)

var (
	listTypes []string
	listSave  bool
	listFull  bool
)

var componentsListCmd = &cobra.Command{
	Use:   "components:list",
	Short: "List rule-node components",
	Long: `List every rule-node component as JSON, sorted by type and then name.
The synthetic rule chain component is always included.

Examples:
  # List all components
  rulekit components:list

  # Only request filters and actions from the server
  rulekit components:list --type FILTER --type ACTION

  # Remember the type selection in the config file
  rulekit components:list -t FILTER -t ACTION --save

  # Full descriptors instead of the compact listing
  rulekit components:list --full | jq '.[].configurationDescriptor'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if len(listTypes) > 0 {
			cfg.Registry.ComponentTypes = listTypes
			if err := config.ValidateRegistry(cfg.Registry); err != nil {
				return err
			}
		}

		rt, err := newRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		components, err := rt.registry.GetComponents(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading components: %w", err)
		}

		if listSave && len(listTypes) > 0 {
			if err := config.SaveComponentTypes(configPath(), listTypes); err != nil {
				return fmt.Errorf("saving component types: %w", err)
			}
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		if listFull {
			return formatter.FormatJSON(components)
		}
		return formatter.FormatComponents(presentation.FromDescriptors(components))
	},
}

var componentsGetCmd = &cobra.Command{
	Use:   "components:get <clazz>",
	Short: "Show one component descriptor",
	Long: `Show the full descriptor for a rule-node class as JSON. Unknown classes
print a placeholder descriptor of type UNKNOWN.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := lookupComponent(cmd, args[0])
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatJSON(d)
	},
}

var componentsLinksCmd = &cobra.Command{
	Use:   "components:links <clazz>",
	Short: "Show the links a component supports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := lookupComponent(cmd, args[0])
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatLinks(
			presentation.FromLinks(d.Clazz, rulenode.SupportedLinks(d), rulenode.AllowsCustomLinks(d)))
	},
}

func init() {
	componentsListCmd.Flags().StringArrayVarP(&listTypes, "type", "t", nil, "Component type to request (repeatable)")
	componentsListCmd.Flags().BoolVar(&listSave, "save", false, "Save --type selection to registry.component_types")
	componentsListCmd.Flags().BoolVar(&listFull, "full", false, "Print full descriptors")

	rootCmd.AddCommand(componentsListCmd, componentsGetCmd, componentsLinksCmd)
}

// lookupComponent builds the component set and resolves clazz against it.
func lookupComponent(cmd *cobra.Command, clazz string) (*rulenode.Descriptor, error) {
	rt, err := newRuntime(cfg)
	if err != nil {
		return nil, err
	}
	defer rt.Close()

	if _, err := rt.registry.GetComponents(cmd.Context()); err != nil {
		return nil, fmt.Errorf("loading components: %w", err)
	}
	return rt.registry.GetByClass(cmd.Context(), clazz), nil
}

// configPath returns the config file in use, or the project default.
func configPath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".rulekit/config.yaml"
}
