/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"personal-ledger-go/internal/common"
	"personal-ledger-go/internal/config"

	"go.uber.org/zap"
)

func seedLedger(ctx context.Context, services *common.Services, seedFile string) {
	zap.L().Info("Loading ledger seed", zap.String("file", seedFile))
	seed, err := common.LoadSeed(seedFile)
	if err != nil {
		zap.L().Fatal("Failed to load seed", zap.Error(err))
	}
	zap.L().Info("Seed loaded",
		zap.Int("categories", len(seed.Categories)),
		zap.Int("wallets", len(seed.Wallets)),
		zap.Int("credit_cards", len(seed.CreditCards)),
		zap.Int("tickers", len(seed.Tickers)))

	result, err := common.ApplySeed(ctx, services.Ledger, seed)
	if err != nil {
		zap.L().Error("Seeding stopped early",
			zap.Int("created", result.Created),
			zap.Int("skipped", result.Skipped),
			zap.Error(err))
		return
	}

	zap.L().Info("Seeding completed successfully",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped))
	fmt.Printf("✓ Ledger seeded: %d created, %d already present\n", result.Created, result.Skipped)
}

func main() {
	ctx := context.Background()

	seedFlag := flag.String("seed", "", "YAML seed file (defaults to SEED_FILE)")
	initFlag := flag.Bool("init", false, "Only create the database schema")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if *initFlag {
		zap.L().Info("Database initialized", zap.String("path", cfg.Database.Path))
		return
	}

	seedFile := cfg.Ledger.SeedFile
	if *seedFlag != "" {
		seedFile = *seedFlag
	}
	seedLedger(ctx, services, seedFile)
}
