package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"personal-ledger-go/internal/common"
	"personal-ledger-go/internal/installment"
	"personal-ledger-go/internal/models"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type debtCmd struct {
	card         string
	category     string
	amount       string
	installments int
	date         string
	invoice      string
	description  string
}

func (*debtCmd) Name() string     { return "debt" }
func (*debtCmd) Synopsis() string { return "register a purchase on a credit card" }
func (*debtCmd) Usage() string {
	return `ledger debt -card <card> -c <category> -a <amount> [-n <installments>] [-d <date>] [-invoice <YYYY-MM>] [-m <description>]

  Splits the amount into monthly installments starting at the given invoice.
  The first installment absorbs the rounding remainder. Without -invoice the
  invoice is derived from the purchase date and the card's closing day.
`
}

func (c *debtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.card, "card", "", "credit card name or id")
	f.StringVar(&c.category, "c", "", "category name or id")
	f.StringVar(&c.amount, "a", "", "total amount")
	f.IntVar(&c.installments, "n", 1, "number of installments")
	f.StringVar(&c.date, "d", "", "purchase date (YYYY-MM-DD), defaults to today")
	f.StringVar(&c.invoice, "invoice", "", "first invoice month (YYYY-MM)")
	f.StringVar(&c.description, "m", "", "description")
}

func (c *debtCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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
	card, err := resolveCreditCard(ctx, services.Ledger, c.card)
	if err != nil {
		return fail("%v", err)
	}
	categoryId, err := resolveCategory(ctx, services.Ledger, c.category)
	if err != nil {
		return fail("%v", err)
	}

	invoice := installment.InvoiceFor(date, card.ClosingDay)
	if c.invoice != "" {
		if invoice, err = installment.ParseYearMonth(c.invoice); err != nil {
			return usageError("%v", err)
		}
	}

	debt, err := services.Ledger.RegisterDebt(ctx, card.Id, categoryId, date, invoice, amount, c.installments, c.description)
	if err != nil {
		return fail("%v", err)
	}

	parts, err := installment.Split(debt.Amount, debt.Installments)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("✓ Debt %s registered on %s (%s)\n", common.FormatAmount(debt.Amount, services.Currency), card.Name, debt.Id)
	for i, part := range parts {
		fmt.Printf("%s %2d/%d %s %s\n",
			common.BoxPrefix(i == len(parts)-1), i+1, len(parts),
			invoice.AddMonths(i).String(),
			common.FormatAmount(part, services.Currency))
	}
	return subcommands.ExitSuccess
}

type payInvoiceCmd struct {
	card   string
	wallet string
	month  string
	rebate string
}

func (*payInvoiceCmd) Name() string     { return "pay-invoice" }
func (*payInvoiceCmd) Synopsis() string { return "pay a credit card invoice from a wallet" }
func (*payInvoiceCmd) Usage() string {
	return `ledger pay-invoice -card <card> [-w <wallet>] [-month <YYYY-MM>] [-rebate <amount>]

  Pays every open installment of the invoice. Paying an invoice twice has no
  further effect. Without -month the next open invoice is paid, and without
  -w the card's billing wallet is used.
`
}

func (c *payInvoiceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.card, "card", "", "credit card name or id")
	f.StringVar(&c.wallet, "w", "", "paying wallet name or id")
	f.StringVar(&c.month, "month", "", "invoice month (YYYY-MM)")
	f.StringVar(&c.rebate, "rebate", "", "card rebate to apply before charging the wallet")
}

func (c *payInvoiceCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}
	card, err := resolveCreditCard(ctx, services.Ledger, c.card)
	if err != nil {
		return fail("%v", err)
	}

	walletRef := c.wallet
	if walletRef == "" {
		walletRef = card.DefaultBillingWalletId
	}
	walletId, err := resolveWallet(ctx, services.Ledger, walletRef)
	if err != nil {
		return fail("%v", err)
	}

	var invoice installment.YearMonth
	if c.month == "" {
		if invoice, err = services.Ledger.GetNextInvoiceMonth(ctx, card.Id); err != nil {
			return fail("%v", err)
		}
	} else if invoice, err = installment.ParseYearMonth(c.month); err != nil {
		return usageError("%v", err)
	}

	rebate := decimal.Zero
	if c.rebate != "" {
		if rebate, err = parseAmount("rebate", c.rebate); err != nil {
			return usageError("%v", err)
		}
	}

	amount, err := services.Ledger.GetInvoiceAmount(ctx, card.Id, invoice.Month, invoice.Year)
	if err != nil {
		return fail("%v", err)
	}

	var outcome models.Outcome
	if rebate.IsZero() {
		outcome, err = services.Ledger.PayInvoice(ctx, card.Id, walletId, invoice.Month, invoice.Year)
	} else {
		outcome, err = services.Ledger.PayInvoiceWithRebate(ctx, card.Id, walletId, invoice.Month, invoice.Year, rebate)
	}
	if err != nil {
		return fail("%v", err)
	}

	switch outcome {
	case models.OutcomeAlreadyPaid:
		fmt.Printf("✓ Invoice %s of %s was already paid\n", invoice.String(), card.Name)
	default:
		fmt.Printf("✓ Invoice %s of %s paid: %s\n", invoice.String(), card.Name, common.FormatAmount(amount, services.Currency))
	}
	return subcommands.ExitSuccess
}

type creditCmd struct{}

func (*creditCmd) Name() string           { return "credit" }
func (*creditCmd) Synopsis() string       { return "show available credit and the next invoice of each card" }
func (*creditCmd) Usage() string          { return "ledger credit [<card>...]\n" }
func (*creditCmd) SetFlags(*flag.FlagSet) {}

func (*creditCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	services, ok := servicesFrom(args)
	if !ok {
		return fail("ledger services unavailable")
	}

	cards, err := services.Ledger.ListCreditCards(ctx)
	if err != nil {
		return fail("%v", err)
	}
	if f.NArg() > 0 {
		cards = cards[:0:0]
		for _, ref := range f.Args() {
			card, err := resolveCreditCard(ctx, services.Ledger, ref)
			if err != nil {
				return fail("%v", err)
			}
			cards = append(cards, *card)
		}
	}

	for _, card := range cards {
		available, err := services.Ledger.GetAvailableCredit(ctx, card.Id)
		if err != nil {
			return fail("%v", err)
		}
		next, err := services.Ledger.GetNextInvoiceMonth(ctx, card.Id)
		if err != nil {
			return fail("%v", err)
		}
		amount, err := services.Ledger.GetInvoiceAmount(ctx, card.Id, next.Month, next.Year)
		if err != nil {
			return fail("%v", err)
		}
		fmt.Printf("%-20s available %s of %s, next invoice %s: %s (closes on day %d)\n",
			card.Name,
			common.FormatAmount(available, services.Currency),
			common.FormatAmount(card.MaxDebt, services.Currency),
			next.String(),
			common.FormatAmount(amount, services.Currency),
			card.ClosingDay)
	}
	return subcommands.ExitSuccess
}
