package cmd

import (
	"fmt"
	"os"

	doc "github.com/atdiar/entityui/drivers/html"
	"github.com/spf13/cobra"
)

var pretty bool
var outPath string

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "render writes the HTML of the board once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := loadProps(propsPath)
		if err != nil {
			return err
		}
		var opts []doc.RenderOption
		if pretty {
			opts = append(opts, doc.Pretty())
		}
		out, err := doc.RenderString(Board, props, opts...)
		if err != nil {
			return err
		}
		if outPath == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		}
		return os.WriteFile(outPath, []byte(out+"\n"), 0o644)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, stdout if empty")
}
