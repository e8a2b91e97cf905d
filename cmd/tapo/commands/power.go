package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tapoctl/internal/services/device"
)

// on: switch the selected devices on.
func onCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "on",
		Short: "Switch devices on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return forEach(cmd.Context(), func(ctx context.Context, c *device.Client) error {
				return c.TurnOn(ctx, transition)
			})
		},
	}
	selectionFlags(cmd)
	return cmd
}

// off: switch the selected devices off.
func offCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "off",
		Short: "Switch devices off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return forEach(cmd.Context(), func(ctx context.Context, c *device.Client) error {
				return c.TurnOff(ctx, transition)
			})
		},
	}
	selectionFlags(cmd)
	return cmd
}
