// Package cart holds the client-local shopping cart: a pure reducer over a
// closed set of actions, and a Store that serializes dispatches.
package cart

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/g7food/client/internal/domain"
)

// ErrInvalidQuantity is returned by UpdateQuantity under QuantityReject when the
// new quantity is below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Item is one cart line.
type Item struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	UnitPrice decimal.Decimal            `json:"unitPrice"`
	Quantity  int                        `json:"quantity"`
	Addons    map[string]decimal.Decimal `json:"addons,omitempty"`
}

// AddonSum is the price of all selected addons.
func (i Item) AddonSum() decimal.Decimal {
	return lo.Reduce(lo.Values(i.Addons), func(acc, p decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(p)
	}, decimal.Zero)
}

// State is the cart contents. Items keep insertion order.
type State struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Empty returns the initial cart.
func Empty() State {
	return State{Items: []Item{}, Total: decimal.Zero}
}

// ItemCount is the number of units across all lines.
func (s State) ItemCount() int {
	return lo.SumBy(s.Items, func(i Item) int { return i.Quantity })
}

// Find returns the line with the given ID.
func (s State) Find(id string) (Item, bool) {
	return lo.Find(s.Items, func(i Item) bool { return i.ID == id })
}

// AddonPolicy decides whether addon prices count toward the cart total.
type AddonPolicy int

const (
	// AddonsExcluded tracks addons per line but leaves them out of Total.
	AddonsExcluded AddonPolicy = iota
	// AddonsPerLine counts the addon sum once per line, as the product screen prices a selection.
	AddonsPerLine
	// AddonsPerUnit counts the addon sum once per unit.
	AddonsPerUnit
)

// QuantityPolicy decides what UpdateQuantity does with quantities below one.
type QuantityPolicy int

const (
	// QuantityReject fails with ErrInvalidQuantity and leaves the state unchanged.
	QuantityReject QuantityPolicy = iota
	// QuantityRemove drops the line.
	QuantityRemove
	// QuantityRaw stores the value as given.
	QuantityRaw
)

// Policy bundles the configurable reducer behaviors.
type Policy struct {
	Addons   AddonPolicy
	Quantity QuantityPolicy
}

// ParseAddonPolicy maps a config value ("excluded", "per-line", "per-unit").
func ParseAddonPolicy(s string) (AddonPolicy, error) {
	switch s {
	case "", "excluded":
		return AddonsExcluded, nil
	case "per-line":
		return AddonsPerLine, nil
	case "per-unit":
		return AddonsPerUnit, nil
	}
	return AddonsExcluded, fmt.Errorf("unknown addon policy %q", s)
}

// ParseQuantityPolicy maps a config value ("reject", "remove", "raw").
func ParseQuantityPolicy(s string) (QuantityPolicy, error) {
	switch s {
	case "", "reject":
		return QuantityReject, nil
	case "remove":
		return QuantityRemove, nil
	case "raw":
		return QuantityRaw, nil
	}
	return QuantityReject, fmt.Errorf("unknown quantity policy %q", s)
}

// LineTotal is what a line contributes to Total under p.
func (p Policy) LineTotal(i Item) decimal.Decimal {
	base := domain.MulQty(i.UnitPrice, i.Quantity)
	switch p.Addons {
	case AddonsPerLine:
		return base.Add(i.AddonSum())
	case AddonsPerUnit:
		return base.Add(domain.MulQty(i.AddonSum(), i.Quantity))
	default:
		return base
	}
}

// unitDelta is the change in LineTotal when i gains qty units.
func (p Policy) unitDelta(i Item, qty int) decimal.Decimal {
	delta := domain.MulQty(i.UnitPrice, qty)
	if p.Addons == AddonsPerUnit {
		delta = delta.Add(domain.MulQty(i.AddonSum(), qty))
	}
	return delta
}

// Recompute sums LineTotal over all items.
func (p Policy) Recompute(items []Item) decimal.Decimal {
	return lo.Reduce(items, func(acc decimal.Decimal, i Item, _ int) decimal.Decimal {
		return acc.Add(p.LineTotal(i))
	}, decimal.Zero)
}

// Reduce applies a to s and returns the new state. s is never modified.
// The only failing case is UpdateQuantity below one under QuantityReject.
func Reduce(p Policy, s State, a Action) (State, error) {
	switch a := a.(type) {
	case AddItem:
		return p.add(s, a.Item), nil
	case RemoveItem:
		return p.remove(s, a.ID), nil
	case UpdateQuantity:
		return p.updateQuantity(s, a.ID, a.Quantity)
	case Clear:
		return Empty(), nil
	default:
		return s, fmt.Errorf("unsupported cart action %T", a)
	}
}

func (p Policy) add(s State, incoming Item) State {
	qty := incoming.Quantity
	if qty <= 0 {
		qty = 1
	}

	_, idx, found := lo.FindIndexOf(s.Items, func(i Item) bool { return i.ID == incoming.ID })
	if found {
		items := cloneItems(s.Items)
		existing := items[idx]
		existing.Quantity += qty
		items[idx] = existing
		return State{Items: items, Total: s.Total.Add(p.unitDelta(existing, qty))}
	}

	line := incoming
	line.Quantity = qty
	line.Addons = cloneAddons(incoming.Addons)
	items := append(cloneItems(s.Items), line)
	return State{Items: items, Total: s.Total.Add(p.LineTotal(line))}
}

func (p Policy) remove(s State, id string) State {
	line, found := s.Find(id)
	if !found {
		return s
	}
	items := lo.Filter(s.Items, func(i Item, _ int) bool { return i.ID != id })
	return State{Items: items, Total: s.Total.Sub(p.LineTotal(line))}
}

func (p Policy) updateQuantity(s State, id string, qty int) (State, error) {
	if qty < 1 {
		switch p.Quantity {
		case QuantityReject:
			return s, fmt.Errorf("updating %s to %d: %w", id, qty, ErrInvalidQuantity)
		case QuantityRemove:
			return p.remove(s, id), nil
		}
	}

	items := lo.Map(s.Items, func(i Item, _ int) Item {
		if i.ID == id {
			i.Quantity = qty
		}
		return i
	})
	return State{Items: items, Total: p.Recompute(items)}, nil
}

// Clone returns a deep copy of s that shares no slices or maps with it.
func (s State) Clone() State {
	items := make([]Item, len(s.Items))
	for i, it := range s.Items {
		it.Addons = cloneAddons(it.Addons)
		items[i] = it
	}
	return State{Items: items, Total: s.Total}
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items), len(items)+1)
	copy(out, items)
	return out
}

func cloneAddons(addons map[string]decimal.Decimal) map[string]decimal.Decimal {
	if addons == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(addons))
	for k, v := range addons {
		out[k] = v
	}
	return out
}
