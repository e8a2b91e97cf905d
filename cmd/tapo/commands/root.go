package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tapoctl/internal/app"
	"tapoctl/internal/config"
	"tapoctl/internal/domain"
	"tapoctl/internal/services/device"
)

var (
	configPath string
	logLevel   string
	hosts      []string
	deviceType string
	transition int

	settings *config.Config
	wire     *app.Wire
)

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "tapo",
		Short:         "Control smart plugs and bulbs over the local secure passthrough protocol",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			level, err := zerolog.ParseLevel(cfg.Log.Level)
			if err != nil {
				level = zerolog.InfoLevel
			}
			zerolog.SetGlobalLevel(level)

			if !cmd.Flags().Changed("transition") {
				transition = cfg.Device.TransitionMS()
			}
			settings = cfg
			wire, err = app.NewWire(app.ConfigFrom(cfg, log.Logger))
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		devicesCmd(),
		onCmd(),
		offCmd(),
		brightnessCmd(),
		tempCmd(),
		colorCmd(),
		infoCmd(),
		publishCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("tapo")
		return err
	}
	return nil
}

// selectionFlags adds --host, --type and --transition to cmd.
func selectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&hosts, "host", nil, "device address (repeatable)")
	cmd.Flags().StringVar(&deviceType, "type", "", "every cloud device of this type, e.g. SMART.TAPOBULB")
	cmd.Flags().IntVar(&transition, "transition", 0, "transition in milliseconds")
}

// targets resolves the selected devices to addresses.
func targets(ctx context.Context) ([]string, error) {
	if len(hosts) > 0 {
		return hosts, nil
	}
	if deviceType == "" {
		return nil, fmt.Errorf("select devices with --host or --type")
	}
	entries, err := wire.App.DevicesByType(ctx, domain.DeviceType(deviceType))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no %s devices on the account", deviceType)
	}
	addrs, err := wire.App.Addresses(entries)
	if err != nil {
		log.Warn().Err(err).Msg("some devices have no configured address")
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no %s device has an address in the hosts table", deviceType)
	}
	return addrs, nil
}

// forEach connects to the selected devices and runs op on each.
func forEach(ctx context.Context, op func(context.Context, *device.Client) error) error {
	addrs, err := targets(ctx)
	if err != nil {
		return err
	}
	clients, connErr := wire.Fleet.Connect(ctx, addrs)
	if len(clients) == 0 {
		return connErr
	}
	return errors.Join(connErr, wire.Fleet.Each(ctx, clients, op))
}
