package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"contesthub/internal/util"
	"contesthub/pkg/domain"
	"contesthub/pkg/storage"
	"contesthub/pkg/store"
	"contesthub/services/portal/internal/app"
	"contesthub/services/portal/internal/config"
)

func main() {
	configPath := flag.String("config", config.ConfigPath, "path to config.yaml")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-config path] <command> [flags]\n\ncommands:\n%s", os.Args[0], commandHelp)
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger("portal", cfg.LogLevel)
	ctx := util.WithAction(context.Background(), flag.Arg(0), "")

	backend, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	sink, err := openSink(cfg)
	if err != nil {
		backend.Close()
		log.Fatalf("failed to init export sink: %v", err)
	}

	var eligibility domain.Eligibility = domain.AllowAll
	if cfg.StrictEligibility {
		eligibility = domain.StrictEligibility(time.Now)
	}
	appCore, err := app.New(ctx, app.Config{
		Store:       backend,
		Exports:     sink,
		Eligibility: eligibility,
		LinkExpiry:  cfg.LinkExpiry(),
	})
	if err != nil {
		backend.Close()
		log.Fatalf("failed to init app: %v", err)
	}

	c := &cli{app: appCore, session: appCore.RestoreSession(), out: os.Stdout}
	runErr := c.run(ctx, flag.Args())
	if err := backend.Close(); err != nil {
		logger.Warn("close store", "err", err)
	}
	if errors.Is(runErr, errUsage) {
		fmt.Fprintln(os.Stderr, runErr)
		flag.Usage()
		os.Exit(2)
	}
	if runErr != nil {
		util.LoggerFromContext(ctx).Info("action refused", "err", runErr)
		fmt.Fprintln(os.Stderr, app.Notice(runErr))
		os.Exit(1)
	}
}

func openSink(cfg config.FileConfig) (storage.Sink, error) {
	if cfg.ExportSink == config.ExportsMinio {
		s, err := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioPrefix, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := storage.NewDirSink(cfg.ExportDir)
	if err != nil {
		return nil, err
	}
	return s, nil
}
