package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seed/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive browser over
// the layout tree of a document.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [document]",
		Short: "Browse the layout tree of a document interactively",
		Args:  cobra.ExactArgs(1),
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
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			res, err := runner.Layout(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}

			model := NewInspectModel(args[0], res.Tree)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}
