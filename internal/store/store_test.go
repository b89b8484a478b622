package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukaan-dev/sahayak/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestAliases(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	// Missing key
	_, ok, err := s.GetAlias("chaya")
	if err != nil {
		t.Fatalf("GetAlias failed: %v", err)
	}
	if ok {
		t.Error("Expected no value for unknown alias")
	}

	// Set + get, case-insensitive key
	if err := s.SetAlias("Chaya", "tea"); err != nil {
		t.Fatalf("SetAlias failed: %v", err)
	}
	v, ok, err := s.GetAlias("chaya")
	if err != nil {
		t.Fatalf("GetAlias failed: %v", err)
	}
	if !ok || v != "tea" {
		t.Errorf("Expected tea, got %q (ok=%v)", v, ok)
	}

	// Last writer wins
	if err := s.SetAlias("chaya", "green tea"); err != nil {
		t.Fatalf("SetAlias overwrite failed: %v", err)
	}
	v, _, _ = s.GetAlias("chaya")
	if v != "green tea" {
		t.Errorf("Expected overwrite to win, got %q", v)
	}

	aliases, err := s.ListAliases()
	if err != nil {
		t.Fatalf("ListAliases failed: %v", err)
	}
	if len(aliases) != 1 {
		t.Errorf("Expected 1 alias, got %d", len(aliases))
	}
}

func TestTrainingExamples(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ex, err := s.AddTrainingExample("add 2 milk", "add-item", map[string]string{"product": "milk", "quantity": "2"})
	if err != nil {
		t.Fatalf("AddTrainingExample failed: %v", err)
	}
	if ex.ID == "" {
		t.Error("Example ID should not be empty")
	}

	examples, err := s.ListTrainingExamples()
	if err != nil {
		t.Fatalf("ListTrainingExamples failed: %v", err)
	}
	if len(examples) != 1 {
		t.Fatalf("Expected 1 example, got %d", len(examples))
	}
	if examples[0].Entities["product"] != "milk" {
		t.Errorf("Entities did not round-trip: %v", examples[0].Entities)
	}
}

func TestProducts(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	p, err := s.UpsertProduct("Milk", 20, 50, 5)
	if err != nil {
		t.Fatalf("UpsertProduct failed: %v", err)
	}
	if p.Name != "milk" {
		t.Errorf("Expected lowercased name, got %q", p.Name)
	}

	if err := s.AdjustStock("milk", -3); err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	p, _ = s.GetProduct("milk")
	if p.Stock != 17 {
		t.Errorf("Expected stock 17, got %v", p.Stock)
	}

	if err := s.SetProductField("milk", "price", 55); err != nil {
		t.Fatalf("SetProductField failed: %v", err)
	}
	p, _ = s.GetProduct("milk")
	if p.Price != 55 {
		t.Errorf("Expected price 55, got %v", p.Price)
	}

	if err := s.SetProductField("milk", "colour", 1); err == nil {
		t.Error("Expected error for unknown field")
	}

	if err := s.AdjustStock("ghost", 1); err != ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	if _, err := s.GetProduct("ghost"); err != ErrProductNotFound {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestListProductsFilters(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	s.UpsertProduct("milk", 2, 50, 5)  // low
	s.UpsertProduct("sugar", 0, 40, 5) // out (and low)
	s.UpsertProduct("tea", 50, 200, 5)

	all, err := s.ListProducts("")
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 products, got %d", len(all))
	}

	low, _ := s.ListProducts("low")
	if len(low) != 2 {
		t.Errorf("Expected 2 low-stock products, got %d", len(low))
	}

	out, _ := s.ListProducts("out")
	if len(out) != 1 || out[0].Name != "sugar" {
		t.Errorf("Expected only sugar out of stock, got %v", out)
	}
}

func TestBillLifecycle(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	bill, err := s.ActiveBill()
	if err != nil {
		t.Fatalf("ActiveBill failed: %v", err)
	}
	if bill.Number != 1 {
		t.Errorf("Expected first bill number 1, got %d", bill.Number)
	}

	// Calling again returns the same bill, not a new one.
	again, _ := s.ActiveBill()
	if again.ID != bill.ID {
		t.Error("Expected same active bill")
	}

	if _, err := s.AddBillItem(bill.ID, "milk", 2, 50); err != nil {
		t.Fatalf("AddBillItem failed: %v", err)
	}
	items, err := s.BillItems(bill.ID)
	if err != nil {
		t.Fatalf("BillItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Errorf("Unexpected items: %v", items)
	}

	if err := s.SetBillItemQuantity(bill.ID, "milk", 5); err != nil {
		t.Fatalf("SetBillItemQuantity failed: %v", err)
	}
	items, _ = s.BillItems(bill.ID)
	if items[0].Quantity != 5 {
		t.Errorf("Expected quantity 5, got %v", items[0].Quantity)
	}

	// Hold and resume
	held, err := s.HoldActiveBill()
	if err != nil {
		t.Fatalf("HoldActiveBill failed: %v", err)
	}
	if held.Status != models.BillStatusHeld {
		t.Errorf("Expected held status, got %s", held.Status)
	}

	resumed, err := s.UnholdBill()
	if err != nil {
		t.Fatalf("UnholdBill failed: %v", err)
	}
	if resumed.ID != bill.ID || resumed.Status != models.BillStatusActive {
		t.Errorf("Expected original bill active again, got %+v", resumed)
	}

	if _, err := s.UnholdBill(); err != ErrNoHeldBill {
		t.Errorf("Expected ErrNoHeldBill, got %v", err)
	}

	// Lookup by number
	found, err := s.GetBillByNumber(bill.Number)
	if err != nil {
		t.Fatalf("GetBillByNumber failed: %v", err)
	}
	if found == nil || found.ID != bill.ID {
		t.Errorf("Expected to find bill by number, got %+v", found)
	}
	missing, _ := s.GetBillByNumber(999)
	if missing != nil {
		t.Error("Expected nil for unknown bill number")
	}

	// Clear cart
	if err := s.ClearBillItems(bill.ID); err != nil {
		t.Fatalf("ClearBillItems failed: %v", err)
	}
	items, _ = s.BillItems(bill.ID)
	if len(items) != 0 {
		t.Errorf("Expected empty bill, got %d items", len(items))
	}
}

func TestSalesAggregates(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	bill, _ := s.ActiveBill()
	s.AddBillItem(bill.ID, "milk", 4, 50)
	s.AddBillItem(bill.ID, "sugar", 1, 40)
	if err := s.SetBillStatus(bill.ID, models.BillStatusPaid); err != nil {
		t.Fatalf("SetBillStatus failed: %v", err)
	}

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)

	total, err := s.SalesTotal(from, to)
	if err != nil {
		t.Fatalf("SalesTotal failed: %v", err)
	}
	if total != 240 {
		t.Errorf("Expected total 240, got %v", total)
	}

	name, qty, err := s.BestSeller(from, to)
	if err != nil {
		t.Fatalf("BestSeller failed: %v", err)
	}
	if name != "milk" || qty != 4 {
		t.Errorf("Expected milk x4, got %s x%v", name, qty)
	}

	count, err := s.CustomerCount(from, to)
	if err != nil {
		t.Fatalf("CustomerCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 paid bill, got %d", count)
	}

	sold, err := s.QuantitySold("milk", from, to)
	if err != nil {
		t.Fatalf("QuantitySold failed: %v", err)
	}
	if sold != 4 {
		t.Errorf("Expected 4 milk sold, got %v", sold)
	}
}

func TestExpenses(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	e, err := s.AddExpense(500, "taxi")
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if e.ID == "" {
		t.Error("Expense ID should not be empty")
	}

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)
	total, err := s.ExpenseTotal(from, to)
	if err != nil {
		t.Fatalf("ExpenseTotal failed: %v", err)
	}
	if total != 500 {
		t.Errorf("Expected 500, got %v", total)
	}
}

func TestInterpretationAudit(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	if _, err := s.RecordInterpretation("add 2 milk", "pattern", "add-item", 0); err != nil {
		t.Fatalf("RecordInterpretation failed: %v", err)
	}
	if _, err := s.RecordInterpretation("gibberish", "none", "", 0); err != nil {
		t.Fatalf("RecordInterpretation failed: %v", err)
	}

	recs, err := s.RecentInterpretations(10)
	if err != nil {
		t.Fatalf("RecentInterpretations failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("Expected 2 audit rows, got %d", len(recs))
	}
}
