package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seed/pkg/io"
	"github.com/matzehuels/seed/pkg/pipeline"
)

// solveCommand creates the solve command, which prints the raw constraint
// solution of a document.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		asJSON bool
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "solve [document]",
		Short: "Solve the constraints of a document and print the solution",
		Long: `Solve the constraints of a document and print the solution.

The solution lists the x, y, width and height solved for every element,
in document coordinates. Use --suggest to explore how the layout responds
when a property is pulled towards a value:

  seed solve card.seed.json --suggest Box.width=120

Solutions are never cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			doc, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(nil, nil, c.Logger)
			res, err := runner.Solve(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}

			if asJSON {
				return io.WriteSolution(res.Solution, os.Stdout)
			}
			printSolution(res.Solution)
			printDetail("%d elements · %d constraints · solved in %s",
				res.Stats.Elements, res.Stats.Constraints, formatDuration(res.Stats.SolveTime))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the solution as JSON")
	flags.register(cmd)

	return cmd
}

// graphCommand creates the graph command, which renders the constraint
// graph of a document.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		noCache  bool
		detailed bool
		format   string
		flags    layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "graph [document]",
		Short: "Render the constraint graph of a document",
		Long: `Render the constraint graph of a document as Graphviz DOT or SVG.

Elements are nodes; dashed edges connect parents to children and solid
edges point from a constrained element to the elements its constraints
reference. With --detailed every edge is labelled with its constraint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			if err := pipeline.ValidateGraphFormat(format); err != nil {
				return err
			}
			opts.GraphFormat = format
			opts.Detailed = detailed

			doc, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			data, cached, err := runner.Graph(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}
			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Graph rendered")
			printFile(output)
			printCacheStatus(cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.DefaultGraphFormat, "output format: dot, svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label edges with their constraints")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}
