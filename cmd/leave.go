package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hrms-portal/internal/api"
)

var (
	leaveDTO           api.LeaveApplicationDTO
	leaveReviewStatus  string
	leaveReviewComment string
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave applications",
}

var leaveSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a leave application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if leaveDTO.EmpID == "" {
			leaveDTO.EmpID = a.store.EmployeeID()
		}
		app, err := api.NewLeaves(a.client, a.logger).Submit(context.Background(), leaveDTO)
		if err != nil {
			return err
		}
		return printJSON(app)
	},
}

var leaveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all leave applications (admin)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewLeaves(a.client, a.logger).List(context.Background(), api.ListQuery{})
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var leaveMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the logged-in employee's applications",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewLeaves(a.client, a.logger).MyApplications(context.Background(), a.store.EmployeeID())
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var leaveReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Approve or reject an application (admin)",
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
		app, err := api.NewLeaves(a.client, a.logger).Review(context.Background(), id,
			api.LeaveReviewDTO{Status: leaveReviewStatus, Comment: leaveReviewComment})
		if err != nil {
			return err
		}
		return printJSON(app)
	},
}

var leaveWithdrawCmd = &cobra.Command{
	Use:   "withdraw <id>",
	Short: "Withdraw one of your pending applications",
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
		return api.NewLeaves(a.client, a.logger).WithdrawMine(context.Background(), id)
	},
}

func init() {
	leaveSubmitCmd.Flags().StringVar(&leaveDTO.Type, "type", "annual", "Leave type")
	leaveSubmitCmd.Flags().StringVar(&leaveDTO.StartDate, "from", "", "Start date, e.g. 2026-09-10")
	leaveSubmitCmd.Flags().StringVar(&leaveDTO.EndDate, "to", "", "End date")
	leaveSubmitCmd.Flags().StringVar(&leaveDTO.Reason, "reason", "", "Reason")
	_ = leaveSubmitCmd.MarkFlagRequired("from")
	_ = leaveSubmitCmd.MarkFlagRequired("to")

	leaveReviewCmd.Flags().StringVar(&leaveReviewStatus, "status", "", "approved or rejected")
	leaveReviewCmd.Flags().StringVar(&leaveReviewComment, "comment", "", "Review comment")
	_ = leaveReviewCmd.MarkFlagRequired("status")

	leaveCmd.AddCommand(leaveSubmitCmd)
	leaveCmd.AddCommand(leaveListCmd)
	leaveCmd.AddCommand(leaveMineCmd)
	leaveCmd.AddCommand(leaveReviewCmd)
	leaveCmd.AddCommand(leaveWithdrawCmd)
}
