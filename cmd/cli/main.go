package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"tribodash/adapters/tabular"
	"tribodash/domain/tribology"
	"tribodash/internal/charts"
	"tribodash/internal/pipeline"
	"tribodash/ui/services"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options shared by every command
type options struct {
	file   string
	topN   int
	shapes []string
	asJSON bool
}

func defaultDataFile() string {
	if f := os.Getenv("DATA_FILE"); f != "" {
		return f
	}
	return "results.txt"
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "tribodash",
		Short:         "Rank and summarise tribology experiment results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", defaultDataFile(), "Results file (.txt/.tsv, .csv or .xlsx)")
	rootCmd.PersistentFlags().IntVarP(&opts.topN, "top", "n", 10, "Number of lowest-COF shapes to keep (< 1 keeps all)")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.shapes, "shape", "s", nil, "Restrict to these shapes within the top N (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")

	rootCmd.AddCommand(
		newRankCmd(opts),
		newSummaryCmd(opts),
		newRenderCmd(opts),
		newExportCmd(opts),
	)
	return rootCmd
}

// view loads the file and runs the pipeline with the command line widget values
func (o *options) view(cmd *cobra.Command) (tribology.View, error) {
	ds, err := pipeline.Load(o.file)
	if err != nil {
		return tribology.View{}, err
	}
	params := tribology.FilterParams{TopN: o.topN}
	if cmd.Flags().Changed("shape") {
		params.Shapes = append([]string{}, o.shapes...)
	}
	return pipeline.Render(ds, params), nil
}

func newRankCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rank",
		Short: "List shapes ordered by mean COF",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := opts.view(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, services.NewGroupResponses(view.Top))
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Rank", "Shape", "Mean COF", "Rows"})
			for _, g := range view.Top {
				table.Append([]string{
					strconv.Itoa(g.Rank),
					g.Shape,
					fmt.Sprintf("%.4f", g.MeanCOF),
					strconv.Itoa(g.Count),
				})
			}
			table.Render()
			return nil
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the four summary metrics for the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := opts.view(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, services.NewSummaryResponse(view.Summary))
			}

			s := view.Summary
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Metric", "Value"})
			table.AppendBulk([][]string{
				{"Mean COF", s.FormatCOF()},
				{"Mean LCC [N]", s.FormatLCC()},
				{"Mean h_min [m]", s.FormatHMin()},
				{"Efficiency (LCC/COF)", s.FormatEfficiency()},
			})
			table.Render()
			for _, n := range view.Notices {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %s\n", n.Message)
			}
			return nil
		},
	}
}

func newRenderCmd(opts *options) *cobra.Command {
	var output string
	var title string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the four charts as a standalone HTML page",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := opts.view(cmd)
			if err != nil {
				return err
			}
			specs := charts.NewBuilder(nil).Build(view)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), specs)
			}
			return withOutput(cmd, output, func(w io.Writer) error {
				return charts.RenderPage(w, title, specs)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "Tribology Analysis Dashboard", "Page title")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selection, efficiency and ranking to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := opts.view(cmd)
			if err != nil {
				return err
			}
			return withOutput(cmd, output, func(w io.Writer) error {
				return tabular.WriteWorkbook(w, services.ExportSheets(view))
			})
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "tribology_export.xlsx", "Output file")
	return cmd
}

func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
