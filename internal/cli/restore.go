package cli

import (
	"fmt"
	"plantao/internal/di"
	"plantao/internal/structures"

	"github.com/spf13/cobra"
)

// NewRestoreCommand writes a snapshot back as the live record.
func NewRestoreCommand(flags *structures.CliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [snapshot]",
		Short: "Restore the record from a snapshot (newest when none is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			restorer, err := di.InitRestorer(flags)
			if err != nil {
				return err
			}
			defer restorer.Close()

			fileName := ""
			if len(args) == 1 {
				fileName = args[0]
			}
			used, rec, err := restorer.Restore(fileName)
			if err != nil {
				return err
			}
			stamp, _ := rec.UpdatedAt()
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s (updatedAt %s)\n", used, stamp)
			return nil
		},
	}
}
