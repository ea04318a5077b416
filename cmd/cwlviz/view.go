package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rendis/cwlviz/internal/diagram"
)

var (
	viewOutput string
	viewLayout string
)

func init() {
	viewCmd.Flags().StringVarP(&viewOutput, "output", "o", "workflow.png", "output image path")
	viewCmd.Flags().StringVar(&viewLayout, "layout", diagram.DefaultLayout, "graphviz layout engine")
	rootCmd.AddCommand(viewCmd)
}

var viewCmd = &cobra.Command{
	Use:   "view <workflow>",
	Short: "Render the workflow diagram to an image file",
	Long: `Render the workflow diagram to an image file. The format follows the
output path extension (png, svg, jpg; default png).

Example:
  cwlviz view workflow.cwl -o pipeline.svg`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	v, closer, err := newViewer(cmd.Context(), args[0], logger)
	if err != nil {
		return err
	}
	defer closer()

	if err := v.Render(cmd.Context(), viewOutput, viewLayout); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Image %s created\n", viewOutput)
	return nil
}
