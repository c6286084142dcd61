package cart

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustReduce(t *testing.T, p Policy, s State, a Action) State {
	t.Helper()
	next, err := Reduce(p, s, a)
	if err != nil {
		t.Fatalf("Reduce(%T) unexpected error: %v", a, err)
	}
	return next
}

func assertTotal(t *testing.T, s State, want string) {
	t.Helper()
	if !s.Total.Equal(dec(want)) {
		t.Errorf("Total = %s, want %s", s.Total, want)
	}
}

func TestAddSameItemTwiceMergesQuantities(t *testing.T) {
	p := Policy{}
	s := Empty()
	s = mustReduce(t, p, s, AddItem{Item: Item{ID: "burger", Name: "Burger", UnitPrice: dec("6"), Quantity: 1}})
	s = mustReduce(t, p, s, AddItem{Item: Item{ID: "burger", Name: "Burger", UnitPrice: dec("6"), Quantity: 2}})

	if len(s.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(s.Items))
	}
	if s.Items[0].Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", s.Items[0].Quantity)
	}
	assertTotal(t, s, "18")
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	p := Policy{}
	s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "fries", UnitPrice: dec("2.5")}})
	s = mustReduce(t, p, s, AddItem{Item: Item{ID: "fries", UnitPrice: dec("2.5")}})

	if s.Items[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", s.Items[0].Quantity)
	}
	assertTotal(t, s, "5")
}

func TestAddKeepsInsertionOrder(t *testing.T) {
	p := Policy{}
	s := Empty()
	for _, id := range []string{"c", "a", "b", "a"} {
		s = mustReduce(t, p, s, AddItem{Item: Item{ID: id, UnitPrice: dec("1")}})
	}

	got := []string{s.Items[0].ID, s.Items[1].ID, s.Items[2].ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMergeKeepsExistingLineFields(t *testing.T) {
	p := Policy{}
	s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "x", Name: "First", UnitPrice: dec("10")}})
	s = mustReduce(t, p, s, AddItem{Item: Item{ID: "x", Name: "Second", UnitPrice: dec("99")}})

	if s.Items[0].Name != "First" {
		t.Errorf("Name = %q, want First", s.Items[0].Name)
	}
	assertTotal(t, s, "20")
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	p := Policy{}
	before := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "x", UnitPrice: dec("10")}})
	_ = mustReduce(t, p, before, AddItem{Item: Item{ID: "x", UnitPrice: dec("10"), Quantity: 4}})
	_ = mustReduce(t, p, before, UpdateQuantity{ID: "x", Quantity: 9})

	if before.Items[0].Quantity != 1 {
		t.Errorf("input state mutated: Quantity = %d, want 1", before.Items[0].Quantity)
	}
	assertTotal(t, before, "10")
}

func TestRemoveUnknownIDIsIdentity(t *testing.T) {
	p := Policy{}
	s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "x", UnitPrice: dec("10"), Quantity: 2}})
	got := mustReduce(t, p, s, RemoveItem{ID: "missing"})

	if len(got.Items) != len(s.Items) {
		t.Fatalf("len(Items) = %d, want %d", len(got.Items), len(s.Items))
	}
	if &got.Items[0] != &s.Items[0] {
		t.Error("expected the same state value back for an unknown id")
	}
	assertTotal(t, got, "20")
}

func TestRemoveSubtractsLineTotal(t *testing.T) {
	p := Policy{}
	s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "a", UnitPrice: dec("10"), Quantity: 2}})
	s = mustReduce(t, p, s, AddItem{Item: Item{ID: "b", UnitPrice: dec("5"), Quantity: 3}})
	s = mustReduce(t, p, s, RemoveItem{ID: "a"})

	if len(s.Items) != 1 || s.Items[0].ID != "b" {
		t.Fatalf("Items = %+v, want only b", s.Items)
	}
	assertTotal(t, s, "15")
}

func TestUpdateQuantityRecomputesTotal(t *testing.T) {
	p := Policy{}
	s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "item1", UnitPrice: dec("10"), Quantity: 2}})
	s = mustReduce(t, p, s, AddItem{Item: Item{ID: "item2", UnitPrice: dec("5"), Quantity: 3}})
	assertTotal(t, s, "35")

	s = mustReduce(t, p, s, UpdateQuantity{ID: "item1", Quantity: 5})
	assertTotal(t, s, "65")
}

func TestUpdateQuantityUnknownIDKeepsItems(t *testing.T) {
	p := Policy{}
	s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "a", UnitPrice: dec("3"), Quantity: 2}})
	s = mustReduce(t, p, s, UpdateQuantity{ID: "zzz", Quantity: 7})

	if s.Items[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", s.Items[0].Quantity)
	}
	assertTotal(t, s, "6")
}

func TestUpdateQuantityBelowOne(t *testing.T) {
	base := func(p Policy) State {
		s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "a", UnitPrice: dec("10"), Quantity: 2}})
		return mustReduce(t, p, s, AddItem{Item: Item{ID: "b", UnitPrice: dec("5")}})
	}

	t.Run("reject", func(t *testing.T) {
		p := Policy{Quantity: QuantityReject}
		s := base(p)
		got, err := Reduce(p, s, UpdateQuantity{ID: "a", Quantity: 0})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("err = %v, want ErrInvalidQuantity", err)
		}
		if got.Items[0].Quantity != 2 {
			t.Errorf("Quantity = %d, want unchanged 2", got.Items[0].Quantity)
		}
		assertTotal(t, got, "25")
	})

	t.Run("remove", func(t *testing.T) {
		p := Policy{Quantity: QuantityRemove}
		got := mustReduce(t, p, base(p), UpdateQuantity{ID: "a", Quantity: -1})
		if len(got.Items) != 1 || got.Items[0].ID != "b" {
			t.Fatalf("Items = %+v, want only b", got.Items)
		}
		assertTotal(t, got, "5")
	})

	t.Run("raw", func(t *testing.T) {
		p := Policy{Quantity: QuantityRaw}
		got := mustReduce(t, p, base(p), UpdateQuantity{ID: "a", Quantity: 0})
		if got.Items[0].Quantity != 0 {
			t.Errorf("Quantity = %d, want 0", got.Items[0].Quantity)
		}
		assertTotal(t, got, "5")
	})
}

func TestClearAlwaysEmpties(t *testing.T) {
	p := Policy{Addons: AddonsPerUnit}
	states := []State{
		Empty(),
		mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "a", UnitPrice: dec("10"), Quantity: 3, Addons: map[string]decimal.Decimal{"Cheese": dec("0.5")}}}),
		{Items: []Item{{ID: "drift", UnitPrice: dec("1"), Quantity: 1}}, Total: dec("999")},
	}

	for _, s := range states {
		got := mustReduce(t, p, s, Clear{})
		if len(got.Items) != 0 || got.Items == nil {
			t.Errorf("Items = %v, want empty non-nil slice", got.Items)
		}
		assertTotal(t, got, "0")
	}
}

func TestAddonPolicies(t *testing.T) {
	item := Item{
		ID:        "burger",
		UnitPrice: dec("6"),
		Quantity:  2,
		Addons:    map[string]decimal.Decimal{"Add Cheese": dec("0.5"), "Add Bacon": dec("1")},
	}

	tests := []struct {
		name      string
		policy    AddonPolicy
		afterAdd  string
		afterMore string // after adding one more unit of the same line
		afterUpd  string // after UpdateQuantity to 4
	}{
		{"excluded", AddonsExcluded, "12", "18", "24"},
		{"per line", AddonsPerLine, "13.5", "19.5", "25.5"},
		{"per unit", AddonsPerUnit, "15", "22.5", "30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Policy{Addons: tt.policy}
			s := mustReduce(t, p, Empty(), AddItem{Item: item})
			assertTotal(t, s, tt.afterAdd)

			s = mustReduce(t, p, s, AddItem{Item: Item{ID: "burger", UnitPrice: dec("6")}})
			assertTotal(t, s, tt.afterMore)
			if !s.Total.Equal(p.Recompute(s.Items)) {
				t.Errorf("incremental total %s drifted from recompute %s", s.Total, p.Recompute(s.Items))
			}

			s = mustReduce(t, p, s, UpdateQuantity{ID: "burger", Quantity: 4})
			assertTotal(t, s, tt.afterUpd)

			s = mustReduce(t, p, s, RemoveItem{ID: "burger"})
			assertTotal(t, s, "0")
		})
	}
}

func TestAddCopiesAddons(t *testing.T) {
	addons := map[string]decimal.Decimal{"Cheese": dec("0.5")}
	s := mustReduce(t, Policy{}, Empty(), AddItem{Item: Item{ID: "a", UnitPrice: dec("1"), Addons: addons}})
	addons["Bacon"] = dec("1")

	if len(s.Items[0].Addons) != 1 {
		t.Errorf("Addons = %v, want the caller's later changes not to leak in", s.Items[0].Addons)
	}
}

func TestItemCountAndFind(t *testing.T) {
	p := Policy{}
	s := mustReduce(t, p, Empty(), AddItem{Item: Item{ID: "a", UnitPrice: dec("1"), Quantity: 2}})
	s = mustReduce(t, p, s, AddItem{Item: Item{ID: "b", UnitPrice: dec("1"), Quantity: 5}})

	if got := s.ItemCount(); got != 7 {
		t.Errorf("ItemCount = %d, want 7", got)
	}
	if _, ok := s.Find("b"); !ok {
		t.Error("Find(b) = false, want true")
	}
	if _, ok := s.Find("c"); ok {
		t.Error("Find(c) = true, want false")
	}
}

func TestParsePolicies(t *testing.T) {
	if p, err := ParseAddonPolicy("per-line"); err != nil || p != AddonsPerLine {
		t.Errorf("ParseAddonPolicy(per-line) = %v, %v", p, err)
	}
	if _, err := ParseAddonPolicy("bogus"); err == nil {
		t.Error("expected error for unknown addon policy")
	}
	if p, err := ParseQuantityPolicy("remove"); err != nil || p != QuantityRemove {
		t.Errorf("ParseQuantityPolicy(remove) = %v, %v", p, err)
	}
	if p, err := ParseQuantityPolicy(""); err != nil || p != QuantityReject {
		t.Errorf("ParseQuantityPolicy(\"\") = %v, %v", p, err)
	}
}

func TestStoreConcurrentAdds(t *testing.T) {
	store := NewStore(Policy{})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AddItem(Item{ID: "soda", UnitPrice: dec("1.5")})
		}()
	}
	wg.Wait()

	s := store.State()
	if s.Items[0].Quantity != 50 {
		t.Errorf("Quantity = %d, want 50", s.Items[0].Quantity)
	}
	assertTotal(t, s, "75")
}

func TestStoreRejectedUpdateKeepsState(t *testing.T) {
	store := NewStore(Policy{})
	store.AddItem(Item{ID: "a", UnitPrice: dec("4"), Quantity: 2})

	if _, err := store.UpdateQuantity("a", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("err = %v, want ErrInvalidQuantity", err)
	}
	assertTotal(t, store.State(), "8")

	store.Clear()
	assertTotal(t, store.State(), "0")
}

func TestStoreStateIsACopy(t *testing.T) {
	store := NewStore(Policy{})
	returned := store.AddItem(Item{ID: "a", UnitPrice: dec("10"), Quantity: 2, Addons: map[string]decimal.Decimal{"cheese": dec("1")}})

	st := store.State()
	st.Items[0].Quantity = 99
	st.Items[0].Addons["bacon"] = dec("2")
	returned.Items[0].Quantity = 42

	got := store.State()
	if got.Items[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", got.Items[0].Quantity)
	}
	if _, ok := got.Items[0].Addons["bacon"]; ok {
		t.Error("addon added through a returned state leaked into the store")
	}
	assertTotal(t, got, "20")
}
