package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/g7food/client/internal/apperr"
	"github.com/g7food/client/internal/domain"
	"github.com/g7food/client/internal/wallet"
)

// fail prints err the way a form would show it and returns an exit error.
func fail(err error) error {
	if err == nil {
		return nil
	}
	w := os.Stderr

	switch ae, ok := apperr.As(err); {
	case errors.Is(err, wallet.ErrBalanceUnknown):
		fmt.Fprintln(w, "Your balance is not loaded yet. Run `g7client wallet show` first.")
	case !ok:
		fmt.Fprintln(w, apperr.PublicMessage(err))
	case ae.Kind == apperr.Validation && len(ae.Fields) > 0:
		fields := make([]string, 0, len(ae.Fields))
		for f := range ae.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(w, "  %s: %s\n", f, ae.Fields[f])
		}
	default:
		fmt.Fprintln(w, ae.PublicMsg)
		if apperr.Retryable(err) {
			fmt.Fprintln(w, "Check your connection and run the command again.")
		}
	}
	return cli.Exit("", 1)
}

func printWallet(w io.Writer, st domain.WalletState, limit int) {
	snap := st.Snapshot
	fmt.Fprintf(w, "Balance:      %s\n", domain.FormatFiat(snap.BalanceFiat))
	fmt.Fprintf(w, "Crypto:       %s\n", domain.FormatCrypto(snap.BalanceCrypto))
	fmt.Fprintf(w, "Crypto price: %s\n", domain.FormatFiat(snap.CryptoUnitPrice))
	if !st.FetchedAt.IsZero() {
		fmt.Fprintf(w, "Updated:      %s\n", st.FetchedAt.Local().Format("2006-01-02 15:04:05"))
	}

	if len(st.Transactions) == 0 {
		fmt.Fprintln(w, "\nNo transactions yet.")
		return
	}
	fmt.Fprintln(w, "\nRecent transactions:")
	for i, tx := range st.Transactions {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "  ... %d more\n", len(st.Transactions)-limit)
			break
		}
		line := fmt.Sprintf("  %-16s %-13s %-10s %16s",
			tx.CreatedAt.Local().Format("2006-01-02 15:04"), tx.Type, tx.Status, domain.FormatSignedFiat(tx))
		if tx.CryptoAmount != nil {
			line += "  " + domain.FormatCrypto(*tx.CryptoAmount)
		}
		if tx.Description != "" {
			line += "  " + tx.Description
		}
		fmt.Fprintln(w, line)
	}
}

func printRequests(w io.Writer, reqs []wallet.Request) {
	if len(reqs) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTracked requests:")
	for _, r := range reqs {
		outcome := string(r.Outcome)
		if outcome == "" {
			outcome = "-"
		}
		fmt.Fprintf(w, "  %s %-15s %12s  %-30s %s\n",
			r.ID[:8], r.Kind, domain.FormatFiat(r.Amount), r.State, outcome)
	}
}
