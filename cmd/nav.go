package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foomo/contentserver-booknav/service"
	"github.com/foomo/contentserver-booknav/service/vo"
)

var (
	navPrevious  bool
	navComments  bool
	navFrontPage bool
	pageRender   bool
)

func init() {
	navCmd.Flags().BoolVarP(&navPrevious, "previous", "p", false, "Move backwards")
	navCmd.Flags().BoolVar(&navComments, "comments", false, "Skip pages without comments")
	navCmd.Flags().BoolVar(&navFrontPage, "front-page", false, "Navigate as if on the site front page")
	pageCmd.Flags().BoolVar(&pageRender, "render", false, "Include the page content as markdown")
	pageCmd.Flags().BoolVar(&navFrontPage, "front-page", false, "Request the page as the site front page")
	rootCmd.AddCommand(navCmd, pageCmd)
}

var navCmd = &cobra.Command{
	Use:   "nav [id]",
	Short: "Print the next or previous page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()

		direction := vo.DirectionNext
		if navPrevious {
			direction = vo.DirectionPrevious
		}
		summary, err := a.service.Navigate(cmd.Context(), args[0], service.NavigateOptions{
			Direction:    direction,
			WithComments: navComments,
			FrontPage:    navFrontPage,
		})
		if err != nil {
			return err
		}
		if summary == nil {
			return fmt.Errorf("no %s page after %q", direction, args[0])
		}
		return printJSON(cmd, summary)
	},
}

var pageCmd = &cobra.Command{
	Use:   "page [id]",
	Short: "Print a page with its navigation",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) > 0 {
			id = args[0]
		} else if !navFrontPage {
			return fmt.Errorf("an id is required unless --front-page is set")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()

		page, err := a.service.GetPage(cmd.Context(), id, service.PageOptions{
			FrontPage: navFrontPage,
			Render:    pageRender,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd, page)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
