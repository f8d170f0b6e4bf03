package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxplotlib/maxplot/pkg/unit"
)

// newUnitsCmd creates the units command, listing the supported unit symbols.
func newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List supported unit symbols",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symbols := unit.Symbols()
			fmt.Println(StyleTitle.Render(fmt.Sprintf("Supported units (%d)", len(symbols))))
			fmt.Println(StyleValue.Render(strings.Join(symbols, "  ")))
			return nil
		},
	}
}
