package catalog

import (
	"encoding/json"
	"testing"
)

func TestReconciler_Run_Upsert(t *testing.T) {
	reconciler := NewReconciler()
	index := testIndex()

	updated := index["soap-1"]
	updated.Price = "120"

	log := []UpdateRecord{
		{Kind: UpdateNew, Product: Product{ID: "new-42", Name: "New Cream", Category: "cosmetics", Status: StatusActive}},
		{Kind: UpdateUpdated, Product: updated, FieldChanges: []FieldChange{{Field: "price", OldValue: "100", NewValue: "120"}}},
	}

	products := reconciler.Run(index, log)

	if len(products) != 3 {
		t.Fatalf("Expected 3 products, got %d", len(products))
	}

	byID := make(map[string]Product)
	for _, p := range products {
		byID[p.ID] = p
	}

	if byID["soap-1"].Price != "120" {
		t.Errorf("Expected soap-1 price '120', got '%s'", byID["soap-1"].Price)
	}
	if byID["new-42"].Status != StatusActive {
		t.Errorf("Expected new-42 status 'active', got '%s'", byID["new-42"].Status)
	}
}

func TestReconciler_Run_SoftRemoval(t *testing.T) {
	reconciler := NewReconciler()
	index := testIndex()

	log := []UpdateRecord{
		{Kind: UpdateRemoved, Product: index["oil-9"]},
	}

	products := reconciler.Run(index, log)

	var oil *Product
	for i := range products {
		if products[i].ID == "oil-9" {
			oil = &products[i]
		}
	}

	if oil == nil {
		t.Fatal("Removed entry must still be present in the catalog")
	}
	if oil.Status != StatusDiscontinued {
		t.Errorf("Expected status 'discontinued', got '%s'", oil.Status)
	}
	if oil.Name != "Herbal Oil" || oil.Price != "250" {
		t.Error("Soft removal must retain all other fields unchanged")
	}
}

func TestReconciler_Run_DoesNotMutateInput(t *testing.T) {
	reconciler := NewReconciler()
	index := testIndex()

	log := []UpdateRecord{
		{Kind: UpdateRemoved, Product: index["oil-9"]},
	}

	reconciler.Run(index, log)

	if index["oil-9"].Status != StatusActive {
		t.Error("Reconciler mutated the input index")
	}
}

func TestReconciler_Run_Idempotent(t *testing.T) {
	reconciler := NewReconciler()
	index := testIndex()

	updated := index["soap-1"]
	updated.Price = "120"

	log := []UpdateRecord{
		{Kind: UpdateNew, Product: Product{ID: "new-42", Name: "New Cream", Category: "cosmetics", Status: StatusActive}},
		{Kind: UpdateUpdated, Product: updated},
		{Kind: UpdateRemoved, Product: index["oil-9"]},
	}

	first := reconciler.Run(index, log)
	second := reconciler.Run(index, log)

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Failed to serialize first result: %v", err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Failed to serialize second result: %v", err)
	}

	if string(firstJSON) != string(secondJSON) {
		t.Error("Reconciliation is not idempotent: results differ byte-for-byte")
	}
}

func TestReconciler_Run_SortedByCategoryThenID(t *testing.T) {
	reconciler := NewReconciler()
	index := map[string]Product{
		"z-1": {ID: "z-1", Category: "food"},
		"a-1": {ID: "a-1", Category: "food"},
		"m-1": {ID: "m-1", Category: "cosmetics"},
	}

	products := reconciler.Run(index, nil)

	expected := []string{"m-1", "a-1", "z-1"}
	for i, id := range expected {
		if products[i].ID != id {
			t.Errorf("Expected position %d to be '%s', got '%s'", i, id, products[i].ID)
		}
	}
}

func TestReconciler_Run_RemovedUnknownID(t *testing.T) {
	reconciler := NewReconciler()
	index := testIndex()

	// A removed record whose id is no longer in the working catalog is a
	// no-op rather than an error.
	log := []UpdateRecord{
		{Kind: UpdateRemoved, Product: Product{ID: "gone-1", Category: "food"}},
	}

	products := reconciler.Run(index, log)
	if len(products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(products))
	}
}
