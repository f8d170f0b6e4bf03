package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxplotlib/maxplot/pkg/render"
)

// newBackendsCmd creates the backends command, listing every registered
// rendering backend with its capabilities.
func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered rendering backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := render.Backends()
			if len(names) == 0 {
				printWarning("No backends registered")
				return nil
			}

			fmt.Println(StyleTitle.Render("Registered backends"))
			for _, name := range names {
				b, ok := render.Lookup(name)
				if !ok {
					continue
				}
				safety := "serialized"
				if b.ConcurrentSafe() {
					safety = "concurrent"
				}
				printKeyValue(name, fmt.Sprintf("%s (%s)", b.Capabilities(), safety))
			}
			return nil
		},
	}
}
