package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/RioDefi/riochain/internal/config"
	"github.com/RioDefi/riochain/internal/core/application"
	"github.com/RioDefi/riochain/internal/core/ports"
	"github.com/RioDefi/riochain/internal/infrastructure/pubsub"
	dbbadger "github.com/RioDefi/riochain/internal/infrastructure/storage/db/badger"
	"github.com/RioDefi/riochain/pkg/stats"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)

	repoManager, err := dbbadger.NewRepoManager(dbDir, log.New())
	if err != nil {
		log.WithError(err).Fatal("error while opening db")
	}
	defer repoManager.Close()

	if genesisFile := config.GetString(config.GenesisFileKey); genesisFile != "" {
		if err := applyGenesis(repoManager, genesisFile); err != nil {
			log.WithError(err).Fatal("error while applying genesis state")
		}
	}

	publisher := newPublisher()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registrySvc := application.NewRegistryService(repoManager, publisher)
	infos, err := registrySvc.TotalAssetInfos(ctx)
	if err != nil {
		log.WithError(err).Fatal("error while reading asset registry")
	}
	for currency, info := range infos {
		log.WithFields(log.Fields{
			"symbol":   info.Info.Symbol,
			"online":   info.IsOnline,
			"issuance": info.Balance,
		}).Infof("asset %d", currency)
	}

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		stats.EnableMemoryStatistics(ctx, interval, filepath.Join(datadir, "stats"))
	}

	log.Info("daemon running, press ctrl+c to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down")
}

func newPublisher() ports.EventPublisher {
	logPublisher := pubsub.NewLogPublisher()

	endpoint := config.GetString(config.WebhookEndpointKey)
	if endpoint == "" {
		return logPublisher
	}

	webhookPublisher := pubsub.NewWebhookPublisher(
		endpoint, config.GetString(config.WebhookSecretKey),
	)
	return pubsub.NewMultiPublisher(logPublisher, webhookPublisher)
}

func applyGenesis(repoManager ports.RepoManager, genesisFile string) error {
	buf, err := os.ReadFile(genesisFile)
	if err != nil {
		return err
	}

	genesisConfig := application.GenesisConfig{}
	if err := json.Unmarshal(buf, &genesisConfig); err != nil {
		return err
	}

	err = application.ApplyGenesis(context.Background(), repoManager, genesisConfig)
	if errors.Is(err, application.ErrGenesisAlreadyApplied) {
		log.Debug("genesis state already applied, skipping")
		return nil
	}
	return err
}
