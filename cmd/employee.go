package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hrms-portal/internal/api"
)

var (
	employeeKeyword string
	employeePage    int
	employeeDTO     api.EmployeeDTO
)

var employeeCmd = &cobra.Command{
	Use:   "employee",
	Short: "Employee directory operations",
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewEmployees(a.client, a.logger).List(context.Background(), api.ListQuery{
			Page:    employeePage,
			Keyword: employeeKeyword,
		})
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var employeeGetCmd = &cobra.Command{
	Use:   "get <empId>",
	Short: "Show one employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		emp, err := api.NewEmployees(a.client, a.logger).GetByEmpID(context.Background(), args[0])
		if err != nil {
			return err
		}
		return printJSON(emp)
	},
}

var employeeCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an employee (admin)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		emp, err := api.NewEmployees(a.client, a.logger).Create(context.Background(), employeeDTO)
		if err != nil {
			return err
		}
		return printJSON(emp)
	},
}

var employeeResignCmd = &cobra.Command{
	Use:   "resign <empId>",
	Short: "Mark an employee as resigned (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return api.NewEmployees(a.client, a.logger).MarkResigned(context.Background(), args[0])
	},
}

var employeeSalaryCmd = &cobra.Command{
	Use:   "my-salary",
	Short: "Show the logged-in employee's salary records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewEmployees(a.client, a.logger).MySalary(context.Background(), a.store.EmployeeID())
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var employeePasswordCmd = &cobra.Command{
	Use:   "change-password <old> <new>",
	Short: "Change the logged-in employee's password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		return api.NewEmployees(a.client, a.logger).ChangePassword(context.Background(), a.store.EmployeeID(),
			api.ChangePasswordDTO{OldPassword: args[0], NewPassword: args[1]})
	},
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func init() {
	employeeListCmd.Flags().StringVar(&employeeKeyword, "keyword", "", "Filter by name or employee id")
	employeeListCmd.Flags().IntVar(&employeePage, "page", 0, "Page number")

	employeeCreateCmd.Flags().StringVar(&employeeDTO.EmpID, "emp-id", "", "Employee id")
	employeeCreateCmd.Flags().StringVar(&employeeDTO.Name, "name", "", "Full name")
	employeeCreateCmd.Flags().StringVar(&employeeDTO.Department, "department", "", "Department")
	employeeCreateCmd.Flags().StringVar(&employeeDTO.Position, "position", "", "Position")
	employeeCreateCmd.Flags().StringVar(&employeeDTO.Email, "email", "", "Email")
	_ = employeeCreateCmd.MarkFlagRequired("emp-id")
	_ = employeeCreateCmd.MarkFlagRequired("name")

	employeeCmd.AddCommand(employeeListCmd)
	employeeCmd.AddCommand(employeeGetCmd)
	employeeCmd.AddCommand(employeeCreateCmd)
	employeeCmd.AddCommand(employeeResignCmd)
	employeeCmd.AddCommand(employeeSalaryCmd)
	employeeCmd.AddCommand(employeePasswordCmd)
}
