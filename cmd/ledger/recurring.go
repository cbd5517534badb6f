package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"personal-ledger-go/internal/common"
	"personal-ledger-go/internal/models"

	"github.com/google/subcommands"
)

type recurCmd struct {
	wallet      string
	category    string
	txType      string
	amount      string
	frequency   string
	start       string
	end         string
	description string
}

func (*recurCmd) Name() string     { return "recur" }
func (*recurCmd) Synopsis() string { return "schedule a recurring income or expense" }
func (*recurCmd) Usage() string {
	return `ledger recur -w <wallet> -c <category> -a <amount> -f <frequency> [-type EXPENSE|INCOME] [-start <date>] [-end <date>] [-m <description>]

  Schedules a template that 'process-recurring' turns into pending
  transactions as their dates come due. Frequencies: daily, weekly, monthly,
  yearly.
`
}

func (c *recurCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.wallet, "w", "", "wallet name or id")
	f.StringVar(&c.category, "c", "", "category name or id")
	f.StringVar(&c.txType, "type", string(models.TransactionTypeExpense), "EXPENSE or INCOME")
	f.StringVar(&c.amount, "a", "", "amount of each occurrence")
	f.StringVar(&c.frequency, "f", "", "daily, weekly, monthly or yearly")
	f.StringVar(&c.start, "start", "", "first occurrence (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.end, "end", "", "last possible occurrence (YYYY-MM-DD), optional")
	f.StringVar(&c.description, "m", "", "description")
}

func (c *recurCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	amount, err := parseAmount("a", c.amount)
	if err != nil {
		return usageError("%v", err)
	}
	frequency, err := models.ParseFrequency(c.frequency)
	if err != nil {
		return usageError("%v", err)
	}
	txType := models.TransactionType(strings.ToUpper(c.txType))
	if !txType.Valid() {
		return usageError("invalid -type %q", c.txType)
	}
	start, err := parseDate(c.start, time.Now())
	if err != nil {
		return usageError("%v", err)
	}
	var end *time.Time
	if c.end != "" {
		e, err := parseDate(c.end, time.Now())
		if err != nil {
			return usageError("%v", err)
		}
		end = &e
	}
	walletId, err := resolveWallet(ctx, services.Ledger, c.wallet)
	if err != nil {
		return fail("%v", err)
	}
	categoryId, err := resolveCategory(ctx, services.Ledger, c.category)
	if err != nil {
		return fail("%v", err)
	}

	rt, err := services.Ledger.AddRecurringTransaction(ctx, walletId, categoryId, txType, amount, start, end, c.description, frequency)
	if err != nil {
		return fail("%v", err)
	}

	fmt.Printf("✓ %s %s %s scheduled, next on %s (%s)\n", strings.ToLower(string(rt.Frequency)), rt.Type,
		common.FormatAmount(rt.Amount, services.Currency), rt.NextDueDate.Format(dateLayout), rt.Id)
	remaining, bounded, err := services.Ledger.ExpectedRemainingAmount(ctx, rt.Id)
	if err == nil && bounded {
		fmt.Printf("  %s expected until %s\n", common.FormatAmount(remaining, services.Currency), rt.EndDate.Format(dateLayout))
	}
	return subcommands.ExitSuccess
}

type processRecurringCmd struct {
	today string
}

func (*processRecurringCmd) Name() string { return "process-recurring" }
func (*processRecurringCmd) Synopsis() string {
	return "create the pending transactions of due recurring templates"
}
func (*processRecurringCmd) Usage() string {
	return `ledger process-recurring [-today <date>]

  Creates one pending transaction for every occurrence due up to today and
  advances each template. Templates past their end date become inactive.
`
}

func (c *processRecurringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.today, "today", "", "process as of this date (YYYY-MM-DD), defaults to today")
}

func (c *processRecurringCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	today, err := parseDate(c.today, time.Now())
	if err != nil {
		return usageError("%v", err)
	}

	created, err := services.Ledger.ProcessRecurringTransactions(ctx, today)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("✓ %d pending transactions created as of %s\n", created, today.Format(dateLayout))
	return subcommands.ExitSuccess
}

type lastDateCmd struct {
	start     string
	end       string
	frequency string
}

func (*lastDateCmd) Name() string     { return "last-date" }
func (*lastDateCmd) Synopsis() string { return "compute the last occurrence of a schedule" }
func (*lastDateCmd) Usage() string {
	return `ledger last-date -start <date> -end <date> -f <frequency>

  Prints the last date on or before -end that a schedule starting at -start
  produces.
`
}

func (c *lastDateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "first occurrence (YYYY-MM-DD)")
	f.StringVar(&c.end, "end", "", "end of the schedule (YYYY-MM-DD)")
	f.StringVar(&c.frequency, "f", "", "daily, weekly, monthly or yearly")
}

func (c *lastDateCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	if c.start == "" || c.end == "" {
		return usageError("-start and -end are required")
	}
	start, err := parseDate(c.start, time.Time{})
	if err != nil {
		return usageError("%v", err)
	}
	end, err := parseDate(c.end, time.Time{})
	if err != nil {
		return usageError("%v", err)
	}
	frequency, err := models.ParseFrequency(c.frequency)
	if err != nil {
		return usageError("%v", err)
	}

	last, err := services.Ledger.GetLastTransactionDate(start, end, frequency)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Println(last.Format(dateLayout))
	return subcommands.ExitSuccess
}
