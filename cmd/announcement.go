package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/hrms-portal/internal/api"
)

var announcementDTO api.AnnouncementDTO

var announcementCmd = &cobra.Command{
	Use:   "announcement",
	Short: "Company announcements",
}

var announcementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List announcements",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		page, err := api.NewAnnouncements(a.client, a.logger).List(context.Background(), api.ListQuery{})
		if err != nil {
			return err
		}
		return printJSON(page)
	},
}

var announcementGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one announcement",
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
		rec, err := api.NewAnnouncements(a.client, a.logger).Get(context.Background(), id)
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var announcementCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish an announcement (admin)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		rec, err := api.NewAnnouncements(a.client, a.logger).Create(context.Background(), announcementDTO)
		if err != nil {
			return err
		}
		return printJSON(rec)
	},
}

var announcementDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an announcement (admin)",
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
		return api.NewAnnouncements(a.client, a.logger).Delete(context.Background(), id)
	},
}

func init() {
	announcementCreateCmd.Flags().StringVar(&announcementDTO.Title, "title", "", "Title")
	announcementCreateCmd.Flags().StringVar(&announcementDTO.Content, "content", "", "Body text")
	_ = announcementCreateCmd.MarkFlagRequired("title")
	_ = announcementCreateCmd.MarkFlagRequired("content")

	announcementCmd.AddCommand(announcementListCmd)
	announcementCmd.AddCommand(announcementGetCmd)
	announcementCmd.AddCommand(announcementCreateCmd)
	announcementCmd.AddCommand(announcementDeleteCmd)
}
