package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tactile/pkg/config"
)

// presetsCommand creates the presets command.
func (c *CLI) presetsCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List and show layout presets",
		Long: `List and show layout presets.

Presets bundle layout settings for a kind of drawing. The built-in presets
can be extended or overridden in $XDG_CONFIG_HOME/tactile/presets.toml:

  default = "floor_plan"

  [presets.my_plans]
  description = "Plans from our scanner"
  paper = "tabloid"
  density_target = 0.28
  overlap = 0.12

Flags given on the command line always win over preset values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.Load(path)
			if err != nil {
				return err
			}
			printPresets(presets)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&path, "presets", "", "presets file (default: $XDG_CONFIG_HOME/tactile/presets.toml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Print a preset as TOML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.Load(path)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			p, err := presets.Get(name)
			if err != nil {
				return err
			}
			fmt.Println(StyleDim.Render("# " + p.Name))
			return toml.NewEncoder(os.Stdout).Encode(p)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the user presets file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			fmt.Println(p)
			return nil
		},
	})

	return cmd
}

// printPresets prints a table of presets, marking the default.
func printPresets(ps *config.Presets) {
	rows := [][]string{}
	for _, name := range ps.Names() {
		p := ps.Presets[name]
		mark := ""
		if name == ps.Default {
			mark = iconSuccess
		}
		paper := p.Paper
		if paper == "" {
			paper = "—"
		}
		rows = append(rows, []string{mark, name, paper, p.Description})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Paper", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return styleIconSuccess
			case col == 1:
				return StyleHighlight
			}
			return lipgloss.NewStyle()
		})

	fmt.Println(t.Render())
}
