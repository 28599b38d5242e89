package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmuldo/kaleidoscope/extract"
	"github.com/mmuldo/kaleidoscope/report"
)

var (
	kind         string
	ownerID      string
	templateFile string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate IMAGE",
	Short: "Generates the color records of an owner from an image",
	Long: `Generates the color records of an owner from an image file or URL.

Previous records of the owner are deleted first. The new records are
printed using the report template.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, e := report.Load(templateFile)
		if e != nil {
			return e
		}

		p, _, e := newPipeline([]string{kind}, newLogger())
		if e != nil {
			return e
		}

		res, e := p.Generate(cmd.Context(), extract.Owner{Kind: kind, ID: ownerID}, args[0])
		if e != nil {
			return e
		}

		return report.Render(os.Stdout, tpl, kind, ownerID, res)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&kind, "kind", "k", "default", "owner kind")
	generateCmd.Flags().StringVarP(&ownerID, "id", "i", "", "owner id")
	generateCmd.Flags().StringVarP(&templateFile, "template", "t", "", "pongo2 template for the printed report")
	generateCmd.MarkFlagRequired("id")
}
