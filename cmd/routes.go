package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hrms-portal/internal/navigation"
)

var routesFrom string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Inspect the portal route table and guard decisions",
}

var routesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the declared route table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry := navigation.NewRegistry(nil)
		for _, route := range registry.Routes() {
			access := "public"
			if route.RequiresAuth {
				access = "auth"
				if route.Role != "" {
					access = string(route.Role)
				}
			}
			fmt.Printf("%-28s %-24s %s\n", route.Path, route.Name, access)
		}
		return nil
	},
}

var routesResolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a navigation against the current session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		guard := navigation.NewGuard(nil, a.store, navigation.TitleSetterFunc(func(title string) {
			fmt.Printf("title: %s\n", title)
		}), a.logger)

		chain := navigation.NewChain()
		from := routesFrom
		target := args[0]
		for {
			decision := guard.SafeResolve(chain, from, target)
			if decision.Action == navigation.ActionAllow {
				fmt.Printf("allow: %s (redirects: %d)\n", target, chain.Redirects())
				return nil
			}
			if decision.LoopDetected {
				fmt.Printf("redirect loop detected, session cleared, restarting at %s\n", decision.Target)
				return nil
			}
			fmt.Printf("redirect: %s -> %s\n", target, decision.Target)
			from = target
			target = decision.Target
		}
	},
}

func init() {
	routesResolveCmd.Flags().StringVar(&routesFrom, "from", "", "Path the navigation originates from")

	routesCmd.AddCommand(routesListCmd)
	routesCmd.AddCommand(routesResolveCmd)
}
