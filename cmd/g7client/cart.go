package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/g7food/client/internal/cart"
	"github.com/g7food/client/internal/domain"
)

func cartCommand(get func() *app) *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "work with a local cart",
		Subcommands: []*cli.Command{
			{
				Name:      "replay",
				Usage:     "apply a JSON list of cart actions and print the result",
				ArgsUsage: "<file|->",
				Action: func(c *cli.Context) error {
					policy, err := cartPolicy(get())
					if err != nil {
						return err
					}
					data, err := readInput(c.Args().First())
					if err != nil {
						return err
					}
					actions, err := cart.DecodeActions(data)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}

					store := cart.NewStore(policy)
					for i, a := range actions {
						if _, err := store.Dispatch(a); err != nil {
							fmt.Fprintf(os.Stderr, "action %d (%T) rejected: %v\n", i+1, a, err)
						}
					}
					printCart(os.Stdout, policy, store.State())
					return nil
				},
			},
		},
	}
}

func cartPolicy(a *app) (cart.Policy, error) {
	addons, err := cart.ParseAddonPolicy(a.cfg.CartAddonPolicy)
	if err != nil {
		return cart.Policy{}, err
	}
	quantity, err := cart.ParseQuantityPolicy(a.cfg.CartQuantityPolicy)
	if err != nil {
		return cart.Policy{}, err
	}
	return cart.Policy{Addons: addons, Quantity: quantity}, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printCart(w io.Writer, p cart.Policy, s cart.State) {
	if len(s.Items) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return
	}
	for _, it := range s.Items {
		fmt.Fprintf(w, "  %3d x %-24s %14s\n", it.Quantity, it.Name, domain.FormatFiat(p.LineTotal(it)))
		for name, price := range it.Addons {
			fmt.Fprintf(w, "        + %-22s %14s\n", name, domain.FormatFiat(price))
		}
	}
	fmt.Fprintf(w, "  %d items, total %s\n", s.ItemCount(), domain.FormatFiat(s.Total))
}
