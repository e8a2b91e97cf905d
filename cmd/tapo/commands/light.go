package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tapoctl/internal/services/device"
)

// brightness <1-100>
func brightnessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brightness <1-100>",
		Short: "Set brightness in percent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("brightness: %w", err)
			}
			return forEach(cmd.Context(), func(ctx context.Context, c *device.Client) error {
				return c.SetBrightness(ctx, level, transition)
			})
		},
	}
	selectionFlags(cmd)
	return cmd
}

// temp <kelvin>
func tempCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "temp <kelvin>",
		Short: "Set white colour temperature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kelvin, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("temp: %w", err)
			}
			return forEach(cmd.Context(), func(ctx context.Context, c *device.Client) error {
				return c.SetColorTemp(ctx, kelvin, transition)
			})
		},
	}
	selectionFlags(cmd)
	return cmd
}

// color [name|#rrggbb]; no argument means white.
func colorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color [name|#rrggbb]",
		Short: "Set a preset or hex colour",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if _, err := wire.Colors.Resolve(name); err != nil {
				return err
			}
			return forEach(cmd.Context(), func(ctx context.Context, c *device.Client) error {
				return c.SetColor(ctx, name)
			})
		},
	}
	selectionFlags(cmd)
	return cmd
}
