package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"personal-ledger-go/internal/api"
	"personal-ledger-go/internal/common"

	"github.com/google/subcommands"
)

// tradeCmd holds the flags shared by 'buy' and 'sell'.
type tradeCmd struct {
	ticker      string
	wallet      string
	category    string
	quantity    string
	price       string
	date        string
	description string
	pending     bool
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol or id")
	f.StringVar(&c.wallet, "w", "", "wallet name or id")
	f.StringVar(&c.category, "c", "", "category name or id")
	f.StringVar(&c.quantity, "q", "", "quantity")
	f.StringVar(&c.price, "p", "", "unit price")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.description, "m", "", "description")
	f.BoolVar(&c.pending, "pending", false, "record the wallet transaction as pending")
}

func (c *tradeCmd) trade(ctx context.Context, services *common.Services) (api.Trade, error) {
	quantity, err := parseAmount("q", c.quantity)
	if err != nil {
		return api.Trade{}, err
	}
	price, err := parseAmount("p", c.price)
	if err != nil {
		return api.Trade{}, err
	}
	date, err := parseDate(c.date, time.Now())
	if err != nil {
		return api.Trade{}, err
	}
	tickerId, err := resolveTicker(ctx, services.Ledger, c.ticker)
	if err != nil {
		return api.Trade{}, err
	}
	walletId, err := resolveWallet(ctx, services.Ledger, c.wallet)
	if err != nil {
		return api.Trade{}, err
	}
	categoryId, err := resolveCategory(ctx, services.Ledger, c.category)
	if err != nil {
		return api.Trade{}, err
	}
	return api.Trade{
		TickerId:    tickerId,
		WalletId:    walletId,
		CategoryId:  categoryId,
		Quantity:    quantity,
		UnitPrice:   price,
		Date:        date,
		Description: c.description,
		Status:      statusFlag(c.pending),
	}, nil
}

func printPosition(ctx context.Context, services *common.Services, tickerId string) {
	ticker, err := services.Ledger.GetTicker(ctx, tickerId)
	if err != nil {
		return
	}
	fmt.Printf("  %s position: %s @ avg %s\n", ticker.Symbol, ticker.CurrentQuantity.String(),
		common.FormatAmount(ticker.AveragePrice, services.Currency))
}

type buyCmd struct{ tradeCmd }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of a ticker" }
func (*buyCmd) Usage() string {
	return `ledger buy -t <ticker> -w <wallet> -c <category> -q <quantity> -p <unit price> [-d <date>] [-m <description>]

  Adds to the position, re-weights its average price and records the cost as
  an expense on the wallet.
`
}

func (c *buyCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	trade, err := c.trade(ctx, services)
	if err != nil {
		return fail("%v", err)
	}
	purchase, err := services.Ledger.AddPurchase(ctx, trade)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("✓ Bought %s @ %s (%s)\n", purchase.Quantity.String(),
		common.FormatAmount(purchase.UnitPrice, services.Currency), purchase.Id)
	printPosition(ctx, services, purchase.TickerId)
	return subcommands.ExitSuccess
}

type sellCmd struct{ tradeCmd }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of a ticker" }
func (*sellCmd) Usage() string {
	return `ledger sell -t <ticker> -w <wallet> -c <category> -q <quantity> -p <unit price> [-d <date>] [-m <description>]

  Reduces the position without changing its average price and records the
  proceeds as an income on the wallet. Selling more than is held fails.
`
}

func (c *sellCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	trade, err := c.trade(ctx, services)
	if err != nil {
		return fail("%v", err)
	}
	sale, err := services.Ledger.AddSale(ctx, trade)
	if err != nil {
		return fail("%v", err)
	}
	gain := sale.UnitPrice.Sub(sale.AverageCost).Mul(sale.Quantity)
	fmt.Printf("✓ Sold %s @ %s, realized %s (%s)\n", sale.Quantity.String(),
		common.FormatAmount(sale.UnitPrice, services.Currency),
		common.FormatAmount(gain, services.Currency), sale.Id)
	printPosition(ctx, services, sale.TickerId)
	return subcommands.ExitSuccess
}

type exchangeCmd struct {
	sold             string
	received         string
	soldQuantity     string
	receivedQuantity string
	date             string
	description      string
}

func (*exchangeCmd) Name() string     { return "exchange" }
func (*exchangeCmd) Synopsis() string { return "swap one cryptocurrency for another" }
func (*exchangeCmd) Usage() string {
	return `ledger exchange -from <ticker> -to <ticker> -sold <quantity> -received <quantity> [-d <date>] [-m <description>]

  Moves quantity between two cryptocurrency positions. No wallet is touched.
`
}

func (c *exchangeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sold, "from", "", "ticker given up")
	f.StringVar(&c.received, "to", "", "ticker received")
	f.StringVar(&c.soldQuantity, "sold", "", "quantity given up")
	f.StringVar(&c.receivedQuantity, "received", "", "quantity received")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.description, "m", "", "description")
}

func (c *exchangeCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	soldQuantity, err := parseAmount("sold", c.soldQuantity)
	if err != nil {
		return usageError("%v", err)
	}
	receivedQuantity, err := parseAmount("received", c.receivedQuantity)
	if err != nil {
		return usageError("%v", err)
	}
	date, err := parseDate(c.date, time.Now())
	if err != nil {
		return usageError("%v", err)
	}
	soldId, err := resolveTicker(ctx, services.Ledger, c.sold)
	if err != nil {
		return fail("%v", err)
	}
	receivedId, err := resolveTicker(ctx, services.Ledger, c.received)
	if err != nil {
		return fail("%v", err)
	}

	exchange, err := services.Ledger.AddCryptoExchange(ctx, soldId, receivedId, soldQuantity, receivedQuantity, date, c.description)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("✓ Exchanged %s for %s (%s)\n", exchange.SoldQuantity.String(), exchange.ReceivedQuantity.String(), exchange.Id)
	printPosition(ctx, services, soldId)
	printPosition(ctx, services, receivedId)
	return subcommands.ExitSuccess
}

