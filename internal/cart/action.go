package cart

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Action is one cart mutation. The set of implementations is closed:
// AddItem, RemoveItem, UpdateQuantity and Clear.
type Action interface {
	isAction()
}

// AddItem adds Item to the cart, merging with an existing line of the same ID.
// A Quantity of zero or less counts as one.
type AddItem struct {
	Item Item
}

// RemoveItem deletes the line with the given ID.
type RemoveItem struct {
	ID string
}

// UpdateQuantity sets the quantity of the line with the given ID.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}

// ParseQuantity reads a quantity typed by the user. Like the quantity stepper's
// text input it accepts surrounding spaces and drops any fractional part.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing quantity %q: %w", s, err)
	}
	return n, nil
}

// wireAction is the JSON form of an action: {"type": "...", ...}.
type wireAction struct {
	Type     string                     `json:"type"`
	ID       string                     `json:"id,omitempty"`
	Name     string                     `json:"name,omitempty"`
	Price    decimal.Decimal            `json:"price"`
	Quantity json.Number                `json:"quantity,omitempty"`
	Addons   map[string]decimal.Decimal `json:"addons,omitempty"`
}

// DecodeActions parses a JSON array of actions, e.g.
//
//	[{"type":"add","id":"burger","name":"Burger","price":"6","quantity":2},
//	 {"type":"update","id":"burger","quantity":"3"},
//	 {"type":"remove","id":"burger"},
//	 {"type":"clear"}]
func DecodeActions(data []byte) ([]Action, error) {
	var raw []wireAction
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding cart actions: %w", err)
	}

	actions := make([]Action, 0, len(raw))
	for i, w := range raw {
		a, err := w.action()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (w wireAction) action() (Action, error) {
	switch w.Type {
	case "add":
		qty := 0
		if w.Quantity != "" {
			n, err := ParseQuantity(w.Quantity.String())
			if err != nil {
				return nil, err
			}
			qty = n
		}
		return AddItem{Item: Item{ID: w.ID, Name: w.Name, UnitPrice: w.Price, Quantity: qty, Addons: w.Addons}}, nil
	case "remove":
		return RemoveItem{ID: w.ID}, nil
	case "update":
		n, err := ParseQuantity(w.Quantity.String())
		if err != nil {
			return nil, err
		}
		return UpdateQuantity{ID: w.ID, Quantity: n}, nil
	case "clear":
		return Clear{}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", w.Type)
	}
}
