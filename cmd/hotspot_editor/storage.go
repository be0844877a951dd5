package main

import (
	"fmt"

	"github.com/colortour/hotspot-editor/internal/config"
	"github.com/colortour/hotspot-editor/internal/database"
	"github.com/colortour/hotspot-editor/internal/storage"
	gormstorage "github.com/colortour/hotspot-editor/internal/storage/gorm"
	"github.com/colortour/hotspot-editor/internal/storage/memory"
	"github.com/rs/zerolog"
)

// initStorage opens the configured medium, scopes it to the editor's
// namespace and initializes it. The returned close func releases the medium
// and any database connection behind it.
func initStorage(storageCfg config.StorageConfig, zlog zerolog.Logger) (*storage.Scoped, func() error, error) {
	medium, closeDB, err := createMedium(storageCfg, zlog)
	if err != nil {
		Logger.Error("Failed to create storage medium", "error", err)
		return nil, nil, err
	}

	scoped := storage.NewScoped(medium, storageCfg.Namespace)
	if err := scoped.Init(); err != nil {
		Logger.Error("Failed to initialize storage medium", "error", err)
		_ = closeDB()
		return nil, nil, err
	}

	closeFn := func() error {
		if err := scoped.Close(); err != nil {
			return err
		}
		return closeDB()
	}
	return scoped, closeFn, nil
}

func createMedium(storageCfg config.StorageConfig, zlog zerolog.Logger) (storage.Medium, func() error, error) {
	noop := func() error { return nil }

	switch storageCfg.Type {
	case "postgres", "sqlite":
		dbManager := database.NewManager(zlog)
		if err := dbManager.Connect(storageCfg); err != nil {
			return nil, nil, fmt.Errorf("failed to connect storage database: %w", err)
		}
		Logger.Info("SQL storage medium initialized",
			"type", storageCfg.Type,
			"local", dbManager.ShouldSaveLocal,
		)
		return gormstorage.New(gormstorage.Dependencies{
			DB:            dbManager.DB,
			Logger:        zlog,
			CapacityBytes: storageCfg.CapacityBytes,
		}), dbManager.Close, nil

	case "memory", "":
		Logger.Info("Memory storage medium initialized",
			"capacity", storageCfg.Memory.CapacityBytes,
		)
		return memory.New(storageCfg.Memory), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", storageCfg.Type)
	}
}
