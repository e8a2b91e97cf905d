package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tapoctl/internal/config"
	"tapoctl/internal/domain"
	"tapoctl/internal/emulator"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ec := cfg.Emulator
	mac := ec.MAC
	if mac == "" {
		mac = "00:00:5E:00:53:01"
	}
	info := domain.DeviceInfo{
		Type:     string(domain.DeviceTypeBulb),
		Model:    ec.Model,
		MAC:      mac,
		Nickname: ec.Nickname,
		SSID:     ec.SSID,
	}
	dev := emulator.NewDevice(emulator.DeviceConfig{
		Email:       ec.Email,
		Password:    ec.Password,
		TokenSecret: []byte(ec.TokenSecret),
		TokenTTL:    ec.TokenTTL,
		Info:        info,
	}, log.Logger)
	state := dev.State()
	cloud := emulator.NewCloud(emulator.CloudConfig{
		Email:       ec.Email,
		Password:    ec.Password,
		TokenSecret: []byte(ec.TokenSecret),
		Devices: []domain.DirectoryEntry{{
			DeviceType:  domain.DeviceTypeBulb,
			DeviceID:    state.DeviceID,
			DeviceName:  ec.Model,
			DeviceModel: ec.Model,
			Alias:       ec.Nickname,
			DeviceMAC:   domain.MAC(mac),
			Status:      1,
		}},
	}, log.Logger)

	servers := []*http.Server{
		{Addr: ec.Listen, Handler: dev, ReadHeaderTimeout: 5 * time.Second},
		{Addr: ec.CloudListen, Handler: cloud, ReadHeaderTimeout: 5 * time.Second},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			log.Info().Str("addr", srv.Addr).Msg("emulator listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Str("addr", srv.Addr).Msg("shutdown")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("emulator stopped")
	}
	log.Info().Msg("emulator stopped")
}
