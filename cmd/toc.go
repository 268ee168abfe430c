package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/foomo/contentserver-booknav/mcp"
	"github.com/foomo/contentserver-booknav/navigation"
	"github.com/foomo/contentserver-booknav/service/vo"
)

var (
	tocMode string
	tocDump bool
)

func init() {
	tocCmd.Flags().StringVarP(&tocMode, "mode", "m", string(navigation.ModeReadable), "readable, structural or posts")
	tocCmd.Flags().BoolVar(&tocDump, "dump", false, "Dump the full table of contents")
	rootCmd.AddCommand(tocCmd)
}

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Print the book in reading order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()

		var toc *vo.TOC
		switch tocMode {
		case mcp.ModePosts:
			toc, err = a.service.GetPosts(cmd.Context())
		case string(navigation.ModeReadable), string(navigation.ModeStructural):
			toc, err = a.service.GetTOC(cmd.Context(), navigation.Mode(tocMode))
		default:
			return fmt.Errorf("unknown mode %q", tocMode)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if tocDump {
			spew.Fdump(out, toc)
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, e := range toc.Entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", e.Number, e.Title, e.ID, e.CommentCount)
		}
		return w.Flush()
	},
}
