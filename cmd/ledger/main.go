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
	"log"
	"os"
	"path"

	"personal-ledger-go/internal/common"
	"personal-ledger-go/internal/config"

	"github.com/google/subcommands"
	"go.uber.org/zap"
)

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&expenseCmd{}, "transactions")
	c.Register(&incomeCmd{}, "transactions")
	c.Register(&confirmCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&reconcileCmd{}, "transactions")

	c.Register(&debtCmd{}, "credit cards")
	c.Register(&payInvoiceCmd{}, "credit cards")
	c.Register(&creditCmd{}, "credit cards")

	c.Register(&buyCmd{}, "positions")
	c.Register(&sellCmd{}, "positions")
	c.Register(&exchangeCmd{}, "positions")

	c.Register(&recurCmd{}, "recurring")
	c.Register(&processRecurringCmd{}, "recurring")
	c.Register(&lastDateCmd{}, "recurring")
}

func main() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	_, loggerCleanup := common.InitializeLogger(cfg.LogLevel)

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}

	status := commander.Execute(ctx, services)
	services.Close()
	loggerCleanup()
	os.Exit(int(status))
}
