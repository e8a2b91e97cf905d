package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tapoctl/internal/domain"
)

// devices: list the account's devices.
func devicesCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices registered to the cloud account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				list []domain.DirectoryEntry
				err  error
			)
			if typ != "" {
				list, err = wire.App.DevicesByType(cmd.Context(), domain.DeviceType(typ))
			} else {
				list, err = wire.App.Devices(cmd.Context())
			}
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ALIAS\tTYPE\tMODEL\tMAC\tADDRESS")
			for _, e := range list {
				addr, rerr := wire.Resolver.Resolve(e.DeviceMAC)
				if rerr != nil {
					addr = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Alias, e.DeviceType, e.DeviceModel, e.DeviceMAC, addr)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "only devices of this type")
	return cmd
}
