package commands

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tapoctl/internal/publish"
	"tapoctl/internal/services/device"
)

// info: print each device's status snapshot as JSON lines.
func infoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print device status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var mu sync.Mutex
			enc := json.NewEncoder(os.Stdout)
			return forEach(cmd.Context(), func(ctx context.Context, c *device.Client) error {
				info, err := c.DeviceInfo(ctx)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				return enc.Encode(info)
			})
		},
	}
	selectionFlags(cmd)
	return cmd
}

// publish: poll each device once and publish its status to NATS.
func publishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish device status to NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, closeConn, err := publish.Connect(settings.NATS.URL, settings.NATS.SubjectPrefix, log.Logger)
			if err != nil {
				return err
			}
			defer closeConn()
			return forEach(cmd.Context(), func(ctx context.Context, c *device.Client) error {
				info, err := c.DeviceInfo(ctx)
				if err != nil {
					return err
				}
				return pub.Publish(ctx, info)
			})
		},
	}
	selectionFlags(cmd)
	return cmd
}
