package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	keep "github.com/eleven-am/keep/pkg/keep"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display Keep version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(keep.FullVersionInfo())
	},
}
