package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tactile/pkg/core/placement"
	tio "github.com/matzehuels/tactile/pkg/io"
)

// reviewCommand creates the review command for browsing label outcomes.
func (c *CLI) reviewCommand() *cobra.Command {
	var (
		plain   bool
		outcome string
	)

	cmd := &cobra.Command{
		Use:   "review [layout.json]",
		Short: "Browse the braille labels of a layout",
		Long: `Browse the braille labels of a layout.

Shows every label with its outcome (placed, repositioned, symbolized or
dropped), its symbol and why it was dropped. Use tab to cycle the outcome
filter. With --plain the list is printed instead, which suits scripts and
non-interactive terminals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := tio.ImportLayout(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}

			var want *placement.Outcome
			if outcome != "" {
				var o placement.Outcome
				if err := o.UnmarshalText([]byte(strings.ToLower(outcome))); err != nil {
					return err
				}
				want = &o
			}

			if plain {
				printLabels(l.Labels, want)
				return nil
			}

			m := NewReviewModel(l).WithFilter(want)
			if _, err := tea.NewProgram(m).Run(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the labels instead of opening the browser")
	cmd.Flags().StringVar(&outcome, "outcome", "", "show only labels with this outcome: placed, repositioned, symbolized, dropped")

	return cmd
}

// printLabels prints one line per label, optionally filtered by outcome.
func printLabels(labels []placement.Label, want *placement.Outcome) {
	for _, l := range labels {
		if want != nil && l.Outcome != *want {
			continue
		}
		line := fmt.Sprintf("%3d  p%-2d %-12s %-4s %s", l.Index+1, l.Page+1, l.Outcome, l.Symbol, l.Text)
		if d := labelDetail(l); d != "—" {
			line += "  " + StyleDim.Render("("+d+")")
		}
		fmt.Println(line)
	}
}
