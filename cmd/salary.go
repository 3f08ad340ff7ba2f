package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hrms-portal/internal/api"
)

var salaryDTO api.SalaryDTO

var salaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Salary records (admin)",
}

var salaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List salary records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewSalaries(a.client, a.logger).List(context.Background(), api.ListQuery{})
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var salaryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a salary record",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		rec, err := api.NewSalaries(a.client, a.logger).Create(context.Background(), salaryDTO)
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var salaryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a salary record",
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
		return api.NewSalaries(a.client, a.logger).Delete(context.Background(), id)
	},
}

func init() {
	salaryCreateCmd.Flags().StringVar(&salaryDTO.EmpID, "emp-id", "", "Employee id")
	salaryCreateCmd.Flags().StringVar(&salaryDTO.Month, "month", "", "Salary month, e.g. 2026-08")
	salaryCreateCmd.Flags().Float64Var(&salaryDTO.Base, "base", 0, "Base amount")
	salaryCreateCmd.Flags().Float64Var(&salaryDTO.Bonus, "bonus", 0, "Bonus amount")
	salaryCreateCmd.Flags().Float64Var(&salaryDTO.Deduction, "deduction", 0, "Deduction amount")
	_ = salaryCreateCmd.MarkFlagRequired("emp-id")
	_ = salaryCreateCmd.MarkFlagRequired("month")

	salaryCmd.AddCommand(salaryListCmd)
	salaryCmd.AddCommand(salaryCreateCmd)
	salaryCmd.AddCommand(salaryDeleteCmd)
}
