package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"personal-ledger-go/internal/api"
	"personal-ledger-go/internal/common"
	"personal-ledger-go/internal/models"

	"github.com/google/subcommands"
)

// entryCmd holds the flags shared by 'expense' and 'income'.
type entryCmd struct {
	wallet      string
	category    string
	amount      string
	date        string
	description string
	pending     bool
}

func (c *entryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.wallet, "w", "", "wallet name or id")
	f.StringVar(&c.category, "c", "", "category name or id")
	f.StringVar(&c.amount, "a", "", "amount, e.g. 12.50")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.description, "m", "", "description")
	f.BoolVar(&c.pending, "pending", false, "record as pending, with no balance effect until confirmed")
}

func (c *entryCmd) record(ctx context.Context, txType models.TransactionType, args []interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	amount, err := parseAmount("a", c.amount)
	if err != nil {
		return usageError("%v", err)
	}
	date, err := parseDate(c.date, time.Now())
	if err != nil {
		return usageError("%v", err)
	}
	walletId, err := resolveWallet(ctx, services.Ledger, c.wallet)
	if err != nil {
		return fail("%v", err)
	}
	categoryId, err := resolveCategory(ctx, services.Ledger, c.category)
	if err != nil {
		return fail("%v", err)
	}

	record := services.Ledger.AddExpense
	if txType == models.TransactionTypeIncome {
		record = services.Ledger.AddIncome
	}
	tx, err := record(ctx, walletId, categoryId, date, amount, c.description, statusFlag(c.pending))
	if err != nil {
		return fail("%v", err)
	}

	fmt.Printf("✓ %s %s recorded (%s, %s)\n", txType, common.FormatAmount(tx.Amount, services.Currency), tx.Status, tx.Id)
	return subcommands.ExitSuccess
}

type expenseCmd struct{ entryCmd }

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record an expense on a wallet" }
func (*expenseCmd) Usage() string {
	return `ledger expense -w <wallet> -c <category> -a <amount> [-d <date>] [-m <description>] [-pending]

  Records an expense. A confirmed expense lowers the wallet balance at once.
`
}

func (c *expenseCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.record(ctx, models.TransactionTypeExpense, args)
}

type incomeCmd struct{ entryCmd }

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record an income on a wallet" }
func (*incomeCmd) Usage() string {
	return `ledger income -w <wallet> -c <category> -a <amount> [-d <date>] [-m <description>] [-pending]

  Records an income. A confirmed income raises the wallet balance at once.
`
}

func (c *incomeCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.record(ctx, models.TransactionTypeIncome, args)
}

type confirmCmd struct{}

func (*confirmCmd) Name() string           { return "confirm" }
func (*confirmCmd) Synopsis() string       { return "confirm pending transactions" }
func (*confirmCmd) Usage() string          { return "ledger confirm <transaction-id>...\n" }
func (*confirmCmd) SetFlags(*flag.FlagSet) {}

func (*confirmCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	if f.NArg() == 0 {
		return usageError("at least one transaction id is required")
	}

	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		tx, err := services.Ledger.ConfirmTransaction(ctx, id)
		if err != nil {
			fmt.Printf("✗ %s: %v\n", id, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("✓ %s: %s %s confirmed\n", id, tx.Type, common.FormatAmount(tx.Amount, services.Currency))
	}
	return status
}

type transferCmd struct {
	from        string
	to          string
	category    string
	amount      string
	date        string
	description string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two wallets" }
func (*transferCmd) Usage() string {
	return `ledger transfer -from <wallet> -to <wallet> -c <category> -a <amount> [-d <date>] [-m <description>]

  Moves money between wallets. The sender must hold at least the amount.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "sending wallet name or id")
	f.StringVar(&c.to, "to", "", "receiving wallet name or id")
	f.StringVar(&c.category, "c", "", "category name or id")
	f.StringVar(&c.amount, "a", "", "amount to move")
	f.StringVar(&c.date, "d", "", "date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.description, "m", "", "description")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	amount, err := parseAmount("a", c.amount)
	if err != nil {
		return usageError("%v", err)
	}
	date, err := parseDate(c.date, time.Now())
	if err != nil {
		return usageError("%v", err)
	}
	fromId, err := resolveWallet(ctx, services.Ledger, c.from)
	if err != nil {
		return fail("%v", err)
	}
	toId, err := resolveWallet(ctx, services.Ledger, c.to)
	if err != nil {
		return fail("%v", err)
	}
	categoryId, err := resolveCategory(ctx, services.Ledger, c.category)
	if err != nil {
		return fail("%v", err)
	}

	transfer, err := services.Ledger.TransferMoney(ctx, fromId, toId, categoryId, amount, date, c.description)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("✓ Transferred %s (%s)\n", common.FormatAmount(transfer.Amount, services.Currency), transfer.Id)
	return subcommands.ExitSuccess
}

type reconcileCmd struct {
	wallet string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "check wallet balances against their history" }
func (*reconcileCmd) Usage() string {
	return `ledger reconcile [-w <wallet>]

  Recomputes each wallet balance from its opening balance, confirmed
  transactions and transfers, and reports any difference.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.wallet, "w", "", "only reconcile this wallet")
}

func (c *reconcileCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}

	wallets, err := services.Ledger.ListWallets(ctx)
	if err != nil {
		return fail("%v", err)
	}

	status := subcommands.ExitSuccess
	checked := 0
	for _, w := range wallets {
		if c.wallet != "" && !matchRef(c.wallet, w.Id, w.Name) {
			continue
		}
		checked++
		rec, err := services.Ledger.ReconcileWallet(ctx, w.Id)
		switch {
		case errors.Is(err, api.ErrBalanceMismatch):
			fmt.Printf("✗ %-20s %s, expected %s\n", w.Name,
				common.FormatAmount(rec.Balance, services.Currency),
				common.FormatAmount(rec.Expected, services.Currency))
			status = subcommands.ExitFailure
		case err != nil:
			return fail("%v", err)
		default:
			fmt.Printf("✓ %-20s %s\n", w.Name, common.FormatAmount(rec.Balance, services.Currency))
		}
	}
	if c.wallet != "" && checked == 0 {
		return fail("unknown wallet %q", c.wallet)
	}
	return status
}
