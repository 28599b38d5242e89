package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mmuldo/kaleidoscope/extract"
)

// destroyCmd represents the destroy command
var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Deletes the color records of an owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		k, _ := cmd.Flags().GetString("kind")
		id, _ := cmd.Flags().GetString("id")

		p, _, e := newPipeline([]string{k}, newLogger())
		if e != nil {
			return e
		}
		return p.Destroy(cmd.Context(), extract.Owner{Kind: k, ID: id})
	},
}

func init() {
	rootCmd.AddCommand(destroyCmd)

	destroyCmd.Flags().StringP("kind", "k", "default", "owner kind")
	destroyCmd.Flags().StringP("id", "i", "", "owner id")
	destroyCmd.MarkFlagRequired("id")
}
