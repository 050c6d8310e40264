// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianParse/pkg/logging"
	"github.com/AleutianAI/AleutianParse/services/linkparse"
	"github.com/AleutianAI/AleutianParse/services/linkparse/cache"
	"github.com/AleutianAI/AleutianParse/services/linkparse/engine"
	"github.com/AleutianAI/AleutianParse/services/linkparse/parser"
	badgerstore "github.com/AleutianAI/AleutianParse/services/linkparse/storage/badger"
	"github.com/AleutianAI/AleutianParse/services/linkparse/telemetry"
)

const shutdownGrace = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg := linkparse.DefaultServiceConfig()
	if configPath != "" {
		loaded, err := linkparse.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dictPath != "" {
		cfg.DictionaryPath = dictPath
	}

	logger := logging.New(logging.Config{
		Level:   logging.VerbosityLevel(verbosity),
		Service: "linkparse",
		JSON:    true,
	})
	defer logger.Close()
	log := logger.Slog()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		db, err := openCacheDB(cfg.Cache, log)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer db.Close()
		resultCache = cache.New(db, cfg.Cache.TTL, log)
	}

	dict := engine.DefaultDictionary()
	if cfg.DictionaryPath != "" {
		dict, err = engine.LoadDictionary(cfg.DictionaryPath)
		if err != nil {
			return fmt.Errorf("load dictionary %s: %w", cfg.DictionaryPath, err)
		}
	}
	eng := engine.New(dict, engine.WithLogger(log))
	search, err := parser.NewSearch(eng, parser.WithLogger(log))
	if err != nil {
		return err
	}

	svc, err := linkparse.NewService(eng, search, resultCache, cfg, log)
	if err != nil {
		return err
	}
	handlers, err := linkparse.NewHandlers(svc, log)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: linkparse.NewRouter(handlers, cfg),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("linkparse service listening", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down linkparse service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openCacheDB(cfg linkparse.CacheConfig, log *slog.Logger) (*badgerstore.DB, error) {
	if cfg.Path == "" {
		log.Info("cache path unset; using an in-memory cache")
		return badgerstore.OpenInMemory()
	}
	bcfg := badgerstore.DefaultConfig()
	bcfg.Path = cfg.Path
	bcfg.Logger = log
	return badgerstore.OpenDB(bcfg)
}
