package dispatch

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukaan-dev/sahayak/internal/alias"
	"github.com/dukaan-dev/sahayak/internal/command"
	"github.com/dukaan-dev/sahayak/internal/models"
	"github.com/dukaan-dev/sahayak/internal/store"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *store.Store, *alias.Resolver) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	resolver := alias.NewResolver(st, nil)
	return New(st, resolver, nil, nil), st, resolver
}

func mustExecute(t *testing.T, d *Dispatcher, cmd *command.Command) *command.ExecResult {
	t.Helper()
	res, err := d.Execute(cmd)
	if err != nil {
		t.Fatalf("Execute(%s): %v", cmd.Type, err)
	}
	return res
}

func TestAddItemAdjustsStock(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	if _, err := st.UpsertProduct("milk", 10, 25, 2); err != nil {
		t.Fatal(err)
	}

	res := mustExecute(t, d, command.NewAddItem("milk", command.Float(2)))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	p, err := st.GetProduct("milk")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 8 {
		t.Errorf("expected stock 8 after billing 2, got %v", p.Stock)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	res := mustExecute(t, d, command.NewAddItem("caviar", command.Float(1)))
	if res.Success {
		t.Fatal("adding an unknown product must refuse")
	}
}

func TestRemoveItemRestoresStock(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	if _, err := st.UpsertProduct("milk", 10, 25, 2); err != nil {
		t.Fatal(err)
	}
	mustExecute(t, d, command.NewAddItem("milk", command.Float(5)))

	res := mustExecute(t, d, command.NewRemoveItem("milk", command.Float(2)))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	p, _ := st.GetProduct("milk")
	if p.Stock != 7 {
		t.Errorf("expected stock 7 after returning 2, got %v", p.Stock)
	}

	// Removing the rest drops the whole line.
	mustExecute(t, d, command.NewRemoveItem("milk", nil))
	p, _ = st.GetProduct("milk")
	if p.Stock != 10 {
		t.Errorf("expected stock back to 10, got %v", p.Stock)
	}
}

func TestRemoveItemNotOnBill(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	res := mustExecute(t, d, command.NewRemoveItem("milk", nil))
	if res.Success {
		t.Fatal("removing an absent line must refuse")
	}
}

func TestModifyItemQuantity(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	if _, err := st.UpsertProduct("milk", 10, 25, 2); err != nil {
		t.Fatal(err)
	}
	mustExecute(t, d, command.NewAddItem("milk", command.Float(5)))

	res := mustExecute(t, d, command.NewModifyItem("milk", command.Float(1)))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	p, _ := st.GetProduct("milk")
	if p.Stock != 9 {
		t.Errorf("expected stock 9 after shrinking the line to 1, got %v", p.Stock)
	}
}

func TestHoldAndUnholdBill(t *testing.T) {
	d, st, _ := newTestDispatcher(t)

	res := mustExecute(t, d, command.NewHoldBill())
	if res.Success {
		t.Fatal("holding with no active bill must refuse")
	}

	if _, err := st.ActiveBill(); err != nil {
		t.Fatal(err)
	}
	res = mustExecute(t, d, command.NewHoldBill())
	if !res.Success {
		t.Fatalf("expected hold to succeed, got %q", res.Message)
	}
	res = mustExecute(t, d, command.NewUnholdBill())
	if !res.Success {
		t.Fatalf("expected unhold to succeed, got %q", res.Message)
	}
	res = mustExecute(t, d, command.NewUnholdBill())
	if res.Success {
		t.Fatal("nothing left to resume, must refuse")
	}
}

func TestClearCartRestocks(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	if _, err := st.UpsertProduct("milk", 10, 25, 2); err != nil {
		t.Fatal(err)
	}
	mustExecute(t, d, command.NewAddItem("milk", command.Float(4)))

	res := mustExecute(t, d, command.NewClearCart())
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	p, _ := st.GetProduct("milk")
	if p.Stock != 10 {
		t.Errorf("expected stock restored to 10, got %v", p.Stock)
	}
}

func TestDataModificationCreatesProduct(t *testing.T) {
	d, st, _ := newTestDispatcher(t)

	res := mustExecute(t, d, command.NewDataModification("stock", "horlicks", command.Float(12)))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	p, err := st.GetProduct("horlicks")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 12 {
		t.Errorf("expected stock 12, got %v", p.Stock)
	}

	res = mustExecute(t, d, command.NewDataModification("price", "horlicks", command.Float(90)))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	p, _ = st.GetProduct("horlicks")
	if p.Price != 90 {
		t.Errorf("expected price 90, got %v", p.Price)
	}
}

func TestDataModificationMissingValue(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	res := mustExecute(t, d, command.NewDataModification("price", "milk", nil))
	if res.Success {
		t.Fatal("missing value must refuse")
	}
}

func payBill(t *testing.T, st *store.Store, lines map[string]struct{ qty, price float64 }) {
	t.Helper()
	bill, err := st.ActiveBill()
	if err != nil {
		t.Fatal(err)
	}
	for name, l := range lines {
		if _, err := st.AddBillItem(bill.ID, name, l.qty, l.price); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.SetBillStatus(bill.ID, models.BillStatusPaid); err != nil {
		t.Fatal(err)
	}
}

func TestAnalyticsOverPaidBills(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	payBill(t, st, map[string]struct{ qty, price float64 }{
		"milk":  {4, 25},
		"sugar": {2, 40},
	})
	payBill(t, st, map[string]struct{ qty, price float64 }{
		"milk": {2, 25},
	})

	res := mustExecute(t, d, command.NewAnalyticsQuery("total-sales", "today"))
	if !res.Success || !strings.Contains(res.Message, "230") {
		t.Errorf("expected total 230, got %q", res.Message)
	}
	res = mustExecute(t, d, command.NewAnalyticsQuery("best-seller", "today"))
	if !res.Success || !strings.Contains(res.Message, "milk") {
		t.Errorf("expected milk as best seller, got %q", res.Message)
	}
	res = mustExecute(t, d, command.NewAnalyticsQuery("customer-count", "today"))
	if !res.Success || !strings.Contains(res.Message, "2 customers") {
		t.Errorf("expected 2 customers, got %q", res.Message)
	}
	res = mustExecute(t, d, command.NewAnalyticsQuery("average-bill", "today"))
	if !res.Success || !strings.Contains(res.Message, "115") {
		t.Errorf("expected average 115, got %q", res.Message)
	}
}

func TestAnalyticsEmptyPeriod(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	res := mustExecute(t, d, command.NewAnalyticsQuery("average-bill", "yesterday"))
	if res.Success {
		t.Fatal("no bills yesterday, must refuse")
	}
}

func TestReportIncludesExpenses(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	if _, err := st.AddExpense(300, "electricity"); err != nil {
		t.Fatal(err)
	}
	res := mustExecute(t, d, command.NewReportQuery("profit-and-loss", "today"))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if !strings.Contains(res.Message, "300") || !strings.Contains(res.Message, "net") {
		t.Errorf("unexpected report %q", res.Message)
	}
}

func TestAddExpense(t *testing.T) {
	d, st, _ := newTestDispatcher(t)

	res := mustExecute(t, d, command.NewAddExpense(command.Float(500), "taxi"))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	from, to := periodRange("today", d.now())
	total, err := st.ExpenseTotal(from, to)
	if err != nil {
		t.Fatal(err)
	}
	if total != 500 {
		t.Errorf("expected 500 recorded, got %v", total)
	}

	res = mustExecute(t, d, command.NewAddExpense(nil, "taxi"))
	if res.Success {
		t.Fatal("missing amount must refuse")
	}
}

func TestLearnAlias(t *testing.T) {
	d, _, resolver := newTestDispatcher(t)
	res := mustExecute(t, d, command.NewLearnAlias("bourbon", "biscuit"))
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if got := resolver.Resolve("bourbon"); got != "biscuit" {
		t.Errorf("expected bourbon to resolve to biscuit, got %q", got)
	}
}

func TestBillLookup(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	bill, err := st.ActiveBill()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddBillItem(bill.ID, "milk", 2, 25); err != nil {
		t.Fatal(err)
	}

	res := mustExecute(t, d, command.NewBillLookup("1"))
	if !res.Success || !strings.Contains(res.Message, "50") {
		t.Errorf("expected bill total 50, got %q", res.Message)
	}
	res = mustExecute(t, d, command.NewBillLookup("99"))
	if res.Success {
		t.Fatal("unknown bill must refuse")
	}
	res = mustExecute(t, d, command.NewBillLookup("abc"))
	if res.Success {
		t.Fatal("non-numeric bill must refuse")
	}
}

func TestForecast(t *testing.T) {
	d, st, _ := newTestDispatcher(t)
	if _, err := st.UpsertProduct("milk", 28, 25, 2); err != nil {
		t.Fatal(err)
	}

	res := mustExecute(t, d, command.NewInventoryForecast("milk"))
	if !res.Success || !strings.Contains(res.Message, "not sold") {
		t.Errorf("expected a no-sales forecast, got %q", res.Message)
	}

	payBill(t, st, map[string]struct{ qty, price float64 }{
		"milk": {14, 25},
	})
	res = mustExecute(t, d, command.NewInventoryForecast("milk"))
	if !res.Success || !strings.Contains(res.Message, "28 days") {
		t.Errorf("expected a 28 day runway at 1/day, got %q", res.Message)
	}
}

func TestPurchaseOrder(t *testing.T) {
	d, st, _ := newTestDispatcher(t)

	res := mustExecute(t, d, command.NewPurchaseOrder())
	if !res.Success || !strings.Contains(res.Message, "Nothing") {
		t.Errorf("expected an empty order, got %q", res.Message)
	}

	if _, err := st.UpsertProduct("milk", 1, 25, 5); err != nil {
		t.Fatal(err)
	}
	res = mustExecute(t, d, command.NewPurchaseOrder())
	if !res.Success || !strings.Contains(res.Message, "milk: 9 units") {
		t.Errorf("expected milk reorder of 9, got %q", res.Message)
	}
}

type fakeAnswerer struct{}

func (fakeAnswerer) Answer(q string) (string, bool) {
	if strings.Contains(q, "refund") {
		return "press refund", true
	}
	return "", false
}

func TestKnowledgeQuery(t *testing.T) {
	d, _, _ := newTestDispatcher(t)
	d.know = fakeAnswerer{}

	res := mustExecute(t, d, command.NewKnowledgeQuery("how do i issue a refund"))
	if !res.Success || res.Message != "press refund" {
		t.Errorf("unexpected answer %+v", res)
	}
	res = mustExecute(t, d, command.NewKnowledgeQuery("unknown question"))
	if res.Success {
		t.Fatal("unanswerable question must refuse")
	}
}
