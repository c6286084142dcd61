package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/g7food/client/internal/apperr"
	"github.com/g7food/client/internal/domain"
	"github.com/g7food/client/internal/export"
	"github.com/g7food/client/internal/validate"
	"github.com/g7food/client/internal/wallet"
	"github.com/g7food/client/internal/worker"
)

func walletCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "balances, deposits and crypto purchases",
		Subcommands: []*cli.Command{
			walletShowCommand(get),
			walletWatchCommand(get),
			walletDepositCommand(get),
			walletBuyCommand(get),
			walletExportCommand(get),
		},
	}
}

// view loads the wallet. A failed refresh with cached data prints a warning
// and shows the last known state.
func view(ctx context.Context, a *app) (domain.WalletState, error) {
	st, err := a.wallet.View(ctx)
	if err != nil {
		if !st.Loaded() {
			return st, err
		}
		fmt.Fprintf(os.Stderr, "Showing last known balance: %s\n\n", apperr.PublicMessage(err))
	}
	return st, nil
}

func walletShowCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "show balances and recent transactions",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "transactions to list, 0 for all"},
		},
		Action: func(c *cli.Context) error {
			st, err := view(c.Context, get())
			if err != nil {
				return fail(err)
			}
			printWallet(os.Stdout, st, c.Int("limit"))
			printRequests(os.Stdout, get().wallet.Requests())
			return nil
		},
	}
}

// printHook prints the wallet after each refresh of `wallet watch`.
type printHook struct {
	sync *wallet.Sync
}

func (h printHook) AfterRefresh(context.Context) error {
	fmt.Println("----")
	printWallet(os.Stdout, h.sync.State(), 5)
	printRequests(os.Stdout, h.sync.Requests())
	return nil
}

// hooks runs several after-refresh hooks in order, stopping at the first error.
type hooks []worker.AfterRefreshHook

func (hs hooks) AfterRefresh(ctx context.Context) error {
	for _, h := range hs {
		if err := h.AfterRefresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

func walletWatchCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "poll the wallet until interrupted",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "interval", Usage: "poll interval (default from G7_WALLET_POLL_INTERVAL)"},
			&cli.StringFlag{Name: "xlsx", Usage: "re-export history to this file after each refresh"},
		},
		Action: func(c *cli.Context) error {
			a := get()
			interval := c.Duration("interval")
			if interval <= 0 {
				interval = a.cfg.WalletPollInterval
			}

			hs := hooks{printHook{sync: a.wallet}}
			if path := c.String("xlsx"); path != "" {
				hs = append(hs, export.NewService(export.NewXLSXWriter(path), a.wallet))
			}

			stop := a.wallet.Watch(c.Context, interval, hs)
			<-c.Context.Done()
			stop()
			return nil
		},
	}
}

func walletDepositCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:      "deposit",
		Usage:     "top up the wallet through an external checkout",
		ArgsUsage: "<amount>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				fmt.Println("Quick amounts:")
				for _, amt := range wallet.DepositQuickAmounts() {
					fmt.Printf("  %s\n", domain.FormatFiat(amt))
				}
				fmt.Printf("Any amount between %s and %s is accepted.\n",
					domain.FormatFiat(validate.DepositMin), domain.FormatFiat(validate.DepositMax))
				return nil
			}

			amount, err := validate.ParseAmount(c.Args().First())
			if err != nil {
				return fail(err)
			}
			req, err := get().wallet.RequestDeposit(c.Context, amount)
			if err != nil {
				return fail(err)
			}
			fmt.Printf("Complete the payment of %s at:\n  %s\n%s\n",
				domain.FormatFiat(req.Amount), req.PaymentURL, req.Notice)
			return nil
		},
	}
}

func walletBuyCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:      "buy",
		Usage:     "convert fiat balance into crypto",
		ArgsUsage: "<amount>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "percent", Usage: "buy with 25, 50, 75 or 100 percent of the balance"},
			&cli.BoolFlag{Name: "preview", Usage: "only show the estimate"},
		},
		Action: func(c *cli.Context) error {
			a := get()
			st, err := view(c.Context, a)
			if err != nil {
				return fail(err)
			}

			var amount decimal.Decimal
			if pct := c.Int("percent"); pct > 0 {
				if !validPercent(pct) {
					return fail(apperr.InvalidErr(validate.MsgInvalidAmount,
						map[string]string{"percent": "Use one of 25, 50, 75 or 100"}))
				}
				amount = wallet.PercentOfBalance(st.Snapshot, pct)
			} else {
				amount, err = validate.ParseAmount(c.Args().First())
				if err != nil {
					return fail(err)
				}
			}

			if c.Bool("preview") {
				estimate, err := a.wallet.PreviewPurchase(c.Context, amount)
				if err != nil {
					return fail(err)
				}
				fmt.Printf("%s buys about %s crypto.\n", domain.FormatFiat(amount), domain.FormatCrypto(estimate))
				return nil
			}

			req, err := a.wallet.RequestCryptoPurchase(c.Context, amount)
			if err != nil {
				return fail(err)
			}
			fmt.Printf("Bought %s crypto for %s (estimated %s).\n%s\n",
				domain.FormatCrypto(req.ExecutedCrypto), domain.FormatFiat(req.Amount),
				domain.FormatCrypto(req.ProvisionalCrypto), req.Notice)
			return nil
		},
	}
}

func validPercent(pct int) bool {
	for _, p := range wallet.PurchasePercentages {
		if p == pct {
			return true
		}
	}
	return false
}

func walletExportCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export transaction history to a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "xlsx", Usage: "write to this .xlsx file"},
			&cli.BoolFlag{Name: "sheets", Usage: "write to the configured Google spreadsheet"},
		},
		Action: func(c *cli.Context) error {
			a := get()

			var writer export.Writer
			switch {
			case c.String("xlsx") != "":
				writer = export.NewXLSXWriter(c.String("xlsx"))
			case c.Bool("sheets"):
				if a.cfg.SheetsSpreadsheetID == "" || a.cfg.SheetsCredentials == "" {
					return cli.Exit("G7_SHEETS_SPREADSHEET_ID and G7_SHEETS_CREDENTIALS must be set", 1)
				}
				sw, err := export.NewSheetsWriter(c.Context, a.cfg.SheetsSpreadsheetID, a.cfg.SheetsCredentials)
				if err != nil {
					return err
				}
				writer = sw
			default:
				return cli.Exit("choose --xlsx <file> or --sheets", 1)
			}

			st, err := view(c.Context, a)
			if err != nil {
				return fail(err)
			}
			if err := export.NewService(writer, nil).Export(c.Context, st.Transactions); err != nil {
				return err
			}
			fmt.Printf("Exported %d transactions.\n", len(st.Transactions))
			return nil
		},
	}
}
