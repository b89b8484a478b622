// Package dispatch executes interpreted commands against the store and
// reports user-facing results.
package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dukaan-dev/sahayak/internal/alias"
	"github.com/dukaan-dev/sahayak/internal/command"
	"github.com/dukaan-dev/sahayak/internal/models"
	"github.com/dukaan-dev/sahayak/internal/store"
)

// forecastWindow is how far back the moving-average forecast looks.
const forecastWindowDays = 14

// Answerer resolves knowledge-query commands. *knowledge.Responder
// satisfies it.
type Answerer interface {
	Answer(question string) (string, bool)
}

// Dispatcher executes commands. It is safe for sequential use per
// session; the store serializes concurrent writers underneath.
type Dispatcher struct {
	store   *store.Store
	aliases *alias.Resolver
	know    Answerer
	log     *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Dispatcher. The knowledge answerer may be nil, in which
// case knowledge queries report no answer.
func New(st *store.Store, aliases *alias.Resolver, know Answerer, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	// Time arithmetic stays in UTC to match the store's timestamps.
	return &Dispatcher{store: st, aliases: aliases, know: know, log: log,
		now: func() time.Time { return time.Now().UTC() }}
}

// ok builds a successful result.
func ok(action, format string, args ...any) *command.ExecResult {
	return &command.ExecResult{
		Success:     true,
		ActionTaken: action,
		Message:     fmt.Sprintf(format, args...),
		At:          time.Now().UTC(),
	}
}

// refuse builds a user-level failure. The turn succeeded; the request
// could not be honored.
func refuse(format string, args ...any) *command.ExecResult {
	return &command.ExecResult{
		Success: false,
		Message: fmt.Sprintf(format, args...),
		At:      time.Now().UTC(),
	}
}

// Execute runs one command. User-level failures (unknown product, no
// bill to resume) come back as unsuccessful results; infrastructure
// failures come back as errors.
func (d *Dispatcher) Execute(cmd *command.Command) (*command.ExecResult, error) {
	if cmd == nil {
		return nil, errors.New("nil command")
	}

	switch cmd.Type {
	case command.TypeAddItem:
		return d.addItem(cmd.AddItem)
	case command.TypeRemoveItem:
		return d.removeItem(cmd.RemoveItem)
	case command.TypeModifyItem:
		return d.modifyItem(cmd.ModifyItem)
	case command.TypeCheckStock:
		return d.checkStock(cmd.CheckStock)
	case command.TypeApplyDiscount:
		return d.applyDiscount(cmd.ApplyDiscount)
	case command.TypeHoldBill:
		return d.holdBill()
	case command.TypeUnholdBill:
		return d.unholdBill()
	case command.TypeDataModification:
		return d.dataModification(cmd.DataModification)
	case command.TypeAnalyticsQuery:
		return d.analytics(cmd.AnalyticsQuery)
	case command.TypeReportQuery:
		return d.report(cmd.ReportQuery)
	case command.TypeNavigate:
		return ok("navigate:"+cmd.Navigate.Screen, "Opening %s.", cmd.Navigate.Screen), nil
	case command.TypeAddExpense:
		return d.addExpense(cmd.AddExpense)
	case command.TypeLearnAlias:
		d.aliases.Learn(cmd.LearnAlias.Alias, cmd.LearnAlias.Target)
		return ok("learn-alias", "Got it, %s means %s.", cmd.LearnAlias.Alias, cmd.LearnAlias.Target), nil
	case command.TypeClearCart:
		return d.clearCart()
	case command.TypeBillLookup:
		return d.billLookup(cmd.BillLookup)
	case command.TypeCustomerLookup:
		return d.customerLookup(cmd.CustomerLookup)
	case command.TypeInventoryQuery:
		return d.inventory(cmd.InventoryQuery)
	case command.TypeKnowledgeQuery:
		return d.knowledgeQuery(cmd.KnowledgeQuery)
	case command.TypeInventoryForecast:
		return d.forecast(cmd.InventoryForecast)
	case command.TypePurchaseOrder:
		return d.purchaseOrder()
	default:
		return nil, fmt.Errorf("unknown command type %q", cmd.Type)
	}
}

func (d *Dispatcher) addItem(p *command.AddItem) (*command.ExecResult, error) {
	if p.Quantity == nil {
		return refuse("How many %s?", p.ProductName), nil
	}
	product, err := d.store.GetProduct(p.ProductName)
	if errors.Is(err, store.ErrProductNotFound) {
		return refuse("I do not know %s. Say 'set stock of %s to <count>' to add it first.", p.ProductName, p.ProductName), nil
	}
	if err != nil {
		return nil, err
	}
	bill, err := d.store.ActiveBill()
	if err != nil {
		return nil, err
	}
	if _, err := d.store.AddBillItem(bill.ID, product.Name, *p.Quantity, product.Price); err != nil {
		return nil, err
	}
	if err := d.store.AdjustStock(product.Name, -*p.Quantity); err != nil {
		return nil, err
	}
	return ok("add-item", "Added %s %s to bill #%d.", trimFloat(*p.Quantity), product.Name, bill.Number), nil
}

func (d *Dispatcher) removeItem(p *command.RemoveItem) (*command.ExecResult, error) {
	bill, err := d.store.ActiveBill()
	if err != nil {
		return nil, err
	}
	item, err := d.billLine(bill.ID, p.ProductName)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return refuse("%s is not on the bill.", p.ProductName), nil
	}

	removed := item.Quantity
	if p.Quantity != nil && *p.Quantity < item.Quantity {
		removed = *p.Quantity
		if err := d.store.SetBillItemQuantity(bill.ID, item.ProductName, item.Quantity-removed); err != nil {
			return nil, err
		}
	} else {
		if _, err := d.store.RemoveBillItem(bill.ID, item.ProductName); err != nil {
			return nil, err
		}
	}
	if err := d.store.AdjustStock(item.ProductName, removed); err != nil && !errors.Is(err, store.ErrProductNotFound) {
		return nil, err
	}
	return ok("remove-item", "Removed %s %s from bill #%d.", trimFloat(removed), item.ProductName, bill.Number), nil
}

func (d *Dispatcher) modifyItem(p *command.ModifyItem) (*command.ExecResult, error) {
	if p.Quantity == nil {
		return refuse("What should the quantity of %s be?", p.ProductName), nil
	}
	bill, err := d.store.ActiveBill()
	if err != nil {
		return nil, err
	}
	item, err := d.billLine(bill.ID, p.ProductName)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return refuse("%s is not on the bill.", p.ProductName), nil
	}
	if err := d.store.SetBillItemQuantity(bill.ID, item.ProductName, *p.Quantity); err != nil {
		return nil, err
	}
	// Return the difference to (or take it from) stock.
	if err := d.store.AdjustStock(item.ProductName, item.Quantity-*p.Quantity); err != nil && !errors.Is(err, store.ErrProductNotFound) {
		return nil, err
	}
	return ok("modify-item", "%s is now %s on bill #%d.", item.ProductName, trimFloat(*p.Quantity), bill.Number), nil
}

func (d *Dispatcher) checkStock(p *command.CheckStock) (*command.ExecResult, error) {
	product, err := d.store.GetProduct(p.ProductName)
	if errors.Is(err, store.ErrProductNotFound) {
		return refuse("No product called %s.", p.ProductName), nil
	}
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("%s: %s in stock at ₹%s.", product.Name, trimFloat(product.Stock), trimFloat(product.Price))
	if product.MinStock > 0 && product.Stock <= product.MinStock {
		msg += " Running low."
	}
	return ok("check-stock", "%s", msg), nil
}

func (d *Dispatcher) applyDiscount(p *command.ApplyDiscount) (*command.ExecResult, error) {
	if p.ProductName == "" {
		bill, err := d.store.ActiveBill()
		if err != nil {
			return nil, err
		}
		if err := d.store.SetBillDiscount(bill.ID, p.Percent); err != nil {
			return nil, err
		}
		return ok("apply-discount", "%s%% off on bill #%d.", trimFloat(p.Percent), bill.Number), nil
	}
	err := d.store.SetProductField(p.ProductName, "discount", p.Percent)
	if errors.Is(err, store.ErrProductNotFound) {
		return refuse("No product called %s.", p.ProductName), nil
	}
	if err != nil {
		return nil, err
	}
	return ok("apply-discount", "%s%% off on %s.", trimFloat(p.Percent), p.ProductName), nil
}

func (d *Dispatcher) holdBill() (*command.ExecResult, error) {
	bill, err := d.store.HoldActiveBill()
	if errors.Is(err, store.ErrNoActiveBill) {
		return refuse("There is no bill to hold."), nil
	}
	if err != nil {
		return nil, err
	}
	return ok("hold-bill", "Bill #%d set aside.", bill.Number), nil
}

func (d *Dispatcher) unholdBill() (*command.ExecResult, error) {
	bill, err := d.store.UnholdBill()
	if errors.Is(err, store.ErrNoHeldBill) {
		return refuse("There is no held bill to resume."), nil
	}
	if err != nil {
		return nil, err
	}
	return ok("unhold-bill", "Back on bill #%d.", bill.Number), nil
}

func (d *Dispatcher) dataModification(p *command.DataModification) (*command.ExecResult, error) {
	if p.Value == nil {
		return refuse("I did not catch the number for %s of %s.", p.Target, p.ProductName), nil
	}
	err := d.store.SetProductField(p.ProductName, p.Target, *p.Value)
	if errors.Is(err, store.ErrProductNotFound) {
		// Setting stock or price on an unknown product creates it.
		switch p.Target {
		case "stock":
			_, err = d.store.UpsertProduct(p.ProductName, *p.Value, 0, 0)
		case "price":
			_, err = d.store.UpsertProduct(p.ProductName, 0, *p.Value, 0)
		default:
			return refuse("No product called %s.", p.ProductName), nil
		}
	}
	if err != nil {
		return nil, err
	}
	return ok("data-modification", "%s of %s is now %s.", p.Target, p.ProductName, trimFloat(*p.Value)), nil
}

func (d *Dispatcher) analytics(p *command.AnalyticsQuery) (*command.ExecResult, error) {
	from, to := periodRange(p.Period, d.now())
	label := periodLabel(p.Period)

	switch p.Metric {
	case "total-sales":
		total, err := d.store.SalesTotal(from, to)
		if err != nil {
			return nil, err
		}
		return ok("analytics", "Sales %s: ₹%s.", label, trimFloat(total)), nil
	case "best-seller":
		name, qty, err := d.store.BestSeller(from, to)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return refuse("No sales %s yet.", label), nil
		}
		return ok("analytics", "Best seller %s: %s (%s sold).", label, name, trimFloat(qty)), nil
	case "customer-count":
		n, err := d.store.CustomerCount(from, to)
		if err != nil {
			return nil, err
		}
		return ok("analytics", "%d customers %s.", n, label), nil
	case "average-bill":
		total, err := d.store.SalesTotal(from, to)
		if err != nil {
			return nil, err
		}
		n, err := d.store.CustomerCount(from, to)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return refuse("No bills %s yet.", label), nil
		}
		return ok("analytics", "Average bill %s: ₹%s.", label, trimFloat(total/float64(n))), nil
	default:
		return refuse("I cannot compute %q.", p.Metric), nil
	}
}

func (d *Dispatcher) report(p *command.ReportQuery) (*command.ExecResult, error) {
	from, to := periodRange(p.Period, d.now())
	label := periodLabel(p.Period)

	sales, err := d.store.SalesTotal(from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := d.store.ExpenseTotal(from, to)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s report %s\n", strings.ReplaceAll(p.Report, "-", " "), label)
	switch p.Report {
	case "expense":
		fmt.Fprintf(&b, "  expenses: ₹%s", trimFloat(expenses))
	case "profit", "loss", "profit-and-loss":
		fmt.Fprintf(&b, "  sales: ₹%s\n  expenses: ₹%s\n  net: ₹%s",
			trimFloat(sales), trimFloat(expenses), trimFloat(sales-expenses))
	default:
		n, err := d.store.CustomerCount(from, to)
		if err != nil {
			return nil, err
		}
		best, qty, err := d.store.BestSeller(from, to)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "  sales: ₹%s across %d bills", trimFloat(sales), n)
		if best != "" {
			fmt.Fprintf(&b, "\n  top item: %s (%s sold)", best, trimFloat(qty))
		}
	}
	return ok("report:"+p.Report, "%s", b.String()), nil
}

func (d *Dispatcher) addExpense(p *command.AddExpense) (*command.ExecResult, error) {
	if p.Amount == nil {
		return refuse("How much was the expense?"), nil
	}
	if _, err := d.store.AddExpense(*p.Amount, p.Reason); err != nil {
		return nil, err
	}
	if p.Reason == "" {
		return ok("add-expense", "Noted ₹%s expense.", trimFloat(*p.Amount)), nil
	}
	return ok("add-expense", "Noted ₹%s for %s.", trimFloat(*p.Amount), p.Reason), nil
}

func (d *Dispatcher) clearCart() (*command.ExecResult, error) {
	bill, err := d.store.ActiveBill()
	if err != nil {
		return nil, err
	}
	items, err := d.store.BillItems(bill.ID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := d.store.AdjustStock(it.ProductName, it.Quantity); err != nil && !errors.Is(err, store.ErrProductNotFound) {
			return nil, err
		}
	}
	if err := d.store.ClearBillItems(bill.ID); err != nil {
		return nil, err
	}
	return ok("clear-cart", "Bill #%d cleared.", bill.Number), nil
}

func (d *Dispatcher) billLookup(p *command.BillLookup) (*command.ExecResult, error) {
	number, err := strconv.ParseInt(p.BillNumber, 10, 64)
	if err != nil {
		return refuse("%q is not a bill number.", p.BillNumber), nil
	}
	bill, err := d.store.GetBillByNumber(number)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return refuse("No bill #%d.", number), nil
	}
	items, err := d.store.BillItems(bill.ID)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, it := range items {
		total += it.Quantity * it.UnitPrice
	}
	total *= 1 - bill.Discount/100
	return ok("bill-lookup", "Bill #%d (%s): %d items, ₹%s.", bill.Number, bill.Status, len(items), trimFloat(total)), nil
}

func (d *Dispatcher) customerLookup(p *command.CustomerLookup) (*command.ExecResult, error) {
	bills, err := d.store.FindBillsByCustomer(p.Name)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return refuse("No bills for %s.", p.Name), nil
	}
	return ok("customer-lookup", "%s has %d bills, latest #%d.", p.Name, len(bills), bills[0].Number), nil
}

func (d *Dispatcher) inventory(p *command.InventoryQuery) (*command.ExecResult, error) {
	filter := p.Filter
	switch filter {
	case "all", "":
		filter = ""
	case "low-stock":
		filter = "low"
	case "out-of-stock":
		filter = "out"
	}
	products, err := d.store.ListProducts(filter)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return ok("inventory", "Nothing to show."), nil
	}
	var b strings.Builder
	for i, prod := range products {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s in stock", prod.Name, trimFloat(prod.Stock))
	}
	return ok("inventory", "%s", b.String()), nil
}

func (d *Dispatcher) knowledgeQuery(p *command.KnowledgeQuery) (*command.ExecResult, error) {
	if d.know != nil {
		if answer, found := d.know.Answer(p.Question); found {
			return ok("knowledge", "%s", answer), nil
		}
	}
	return refuse("I do not have an answer for that."), nil
}

// forecast estimates days until a product runs out from its average
// daily sales over the recent window.
func (d *Dispatcher) forecast(p *command.InventoryForecast) (*command.ExecResult, error) {
	product, err := d.store.GetProduct(p.ProductName)
	if errors.Is(err, store.ErrProductNotFound) {
		return refuse("No product called %s.", p.ProductName), nil
	}
	if err != nil {
		return nil, err
	}
	now := d.now()
	sold, err := d.store.QuantitySold(product.Name, now.AddDate(0, 0, -forecastWindowDays), now)
	if err != nil {
		return nil, err
	}
	if sold <= 0 {
		return ok("forecast", "%s has not sold in the last %d days; %s in stock.",
			product.Name, forecastWindowDays, trimFloat(product.Stock)), nil
	}
	perDay := sold / forecastWindowDays
	days := product.Stock / perDay
	return ok("forecast", "%s sells about %s a day; %s in stock will last around %d days.",
		product.Name, trimFloat(perDay), trimFloat(product.Stock), int(days)), nil
}

func (d *Dispatcher) purchaseOrder() (*command.ExecResult, error) {
	products, err := d.store.ListProducts("low")
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return ok("purchase-order", "Nothing needs reordering."), nil
	}
	var b strings.Builder
	b.WriteString("Purchase order:")
	for _, prod := range products {
		qty := prod.MinStock*2 - prod.Stock
		if qty < 1 {
			qty = 1
		}
		fmt.Fprintf(&b, "\n  %s: %s units", prod.Name, trimFloat(qty))
	}
	return ok("purchase-order", "%s", b.String()), nil
}

// billLine finds a product's line on a bill, nil when absent.
func (d *Dispatcher) billLine(billID, productName string) (*models.BillItem, error) {
	items, err := d.store.BillItems(billID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductName == productName {
			return &items[i], nil
		}
	}
	return nil, nil
}

// trimFloat formats a float without trailing zeros.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
