package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hrms-portal/internal/api"
)

var adminDTO api.AdminDTO

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator accounts and dashboards",
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List administrators",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewAdmins(a.client, a.logger).List(context.Background(), api.ListQuery{})
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var adminSearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search administrators",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewAdmins(a.client, a.logger).Search(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		stats, err := api.NewAdmins(a.client, a.logger).DashboardStats(context.Background())
		if err != nil {
			return err
		}
		return printJSON(stats)
	},
}

var adminTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show monthly trend aggregates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		trends, err := api.NewAdmins(a.client, a.logger).MonthlyTrends(context.Background())
		if err != nil {
			return err
		}
		return printJSON(trends)
	},
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		rec, err := api.NewAdmins(a.client, a.logger).Create(context.Background(), adminDTO)
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an administrator account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return api.NewAdmins(a.client, a.logger).Delete(context.Background(), id)
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminDTO.Username, "username", "", "Username")
	adminCreateCmd.Flags().StringVar(&adminDTO.Name, "name", "", "Display name")
	adminCreateCmd.Flags().StringVar(&adminDTO.Email, "email", "", "Email")
	adminCreateCmd.Flags().StringVar(&adminDTO.Password, "password", "", "Initial password")
	_ = adminCreateCmd.MarkFlagRequired("username")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminSearchCmd)
	adminCmd.AddCommand(adminStatsCmd)
	adminCmd.AddCommand(adminTrendsCmd)
	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminDeleteCmd)
}
