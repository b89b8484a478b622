// Package command defines the structured commands the interpreter emits
// and the result type returned by the dispatcher.
package command

import "time"

// Type tags a command variant. The set is closed: the dispatcher switches
// over it exhaustively and unknown tags are rejected.
type Type string

const (
	TypeAddItem           Type = "add-item"
	TypeRemoveItem        Type = "remove-item"
	TypeModifyItem        Type = "modify-item"
	TypeCheckStock        Type = "check-stock"
	TypeApplyDiscount     Type = "apply-discount"
	TypeHoldBill          Type = "hold-bill"
	TypeUnholdBill        Type = "unhold-bill"
	TypeDataModification  Type = "data-modification"
	TypeAnalyticsQuery    Type = "analytics-query"
	TypeReportQuery       Type = "report-query"
	TypeNavigate          Type = "navigate"
	TypeAddExpense        Type = "add-expense"
	TypeLearnAlias        Type = "learn-alias"
	TypeClearCart         Type = "clear-cart"
	TypeBillLookup        Type = "bill-lookup"
	TypeCustomerLookup    Type = "customer-lookup"
	TypeInventoryQuery    Type = "inventory-query"
	TypeKnowledgeQuery    Type = "knowledge-query"
	TypeInventoryForecast Type = "inventory-forecast"
	TypePurchaseOrder     Type = "generate-purchase-order"
)

// AddItem adds a product to the active bill. Quantity is nil when the
// utterance did not carry one; the caller is expected to re-prompt.
type AddItem struct {
	ProductName string   `json:"product_name"`
	Quantity    *float64 `json:"quantity,omitempty"`
}

// RemoveItem removes a product (or part of its quantity) from the active bill.
type RemoveItem struct {
	ProductName string   `json:"product_name"`
	Quantity    *float64 `json:"quantity,omitempty"`
}

// ModifyItem changes the quantity of a line already on the active bill.
type ModifyItem struct {
	ProductName string   `json:"product_name"`
	Quantity    *float64 `json:"quantity,omitempty"`
}

// CheckStock asks for the current stock level of a product.
type CheckStock struct {
	ProductName string `json:"product_name"`
}

// ApplyDiscount applies a percentage discount to a product, or to the
// whole active bill when ProductName is empty.
type ApplyDiscount struct {
	Percent     float64 `json:"percent"`
	ProductName string  `json:"product_name,omitempty"`
}

// HoldBill parks the active bill so a new one can be started.
type HoldBill struct{}

// UnholdBill resumes the most recently held bill.
type UnholdBill struct{}

// DataModification sets a named field of a product record. Value is nil
// when the utterance did not carry a parseable number.
type DataModification struct {
	Target      string   `json:"target"` // price, stock, discount, min-stock
	ProductName string   `json:"product_name"`
	Value       *float64 `json:"value,omitempty"`
}

// AnalyticsQuery answers a point question over sales data.
type AnalyticsQuery struct {
	Metric string `json:"metric"` // total-sales, best-seller, customer-count, average-bill
	Period string `json:"period,omitempty"`
}

// ReportQuery requests a named report for a period.
type ReportQuery struct {
	Report string `json:"report"`
	Period string `json:"period,omitempty"`
}

// Navigate switches the POS front end to a named screen.
type Navigate struct {
	Screen string `json:"screen"`
}

// AddExpense records a cash expense. Amount is nil when missing from the
// utterance.
type AddExpense struct {
	Amount *float64 `json:"amount,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// LearnAlias teaches the resolver a new synonym.
type LearnAlias struct {
	Alias  string `json:"alias"`
	Target string `json:"target"`
}

// ClearCart discards every line on the active bill.
type ClearCart struct{}

// BillLookup opens a bill by its number.
type BillLookup struct {
	BillNumber string `json:"bill_number"`
}

// CustomerLookup finds a customer by name.
type CustomerLookup struct {
	Name string `json:"name"`
}

// InventoryQuery lists inventory by a fixed filter.
type InventoryQuery struct {
	Filter string `json:"filter"` // all, low-stock, out-of-stock
}

// KnowledgeQuery carries a question for the FAQ responder.
type KnowledgeQuery struct {
	Question string `json:"question"`
}

// InventoryForecast estimates days until a product runs out.
type InventoryForecast struct {
	ProductName string `json:"product_name"`
}

// PurchaseOrder asks for a reorder list of products at or below their
// minimum stock.
type PurchaseOrder struct{}

// Command is the tagged union produced by interpretation. Exactly one
// payload field matching Type is non-nil (zero-payload variants carry
// none). Commands are immutable once built; Clone before editing.
type Command struct {
	Type Type `json:"type"`

	AddItem           *AddItem           `json:"add_item,omitempty"`
	RemoveItem        *RemoveItem        `json:"remove_item,omitempty"`
	ModifyItem        *ModifyItem        `json:"modify_item,omitempty"`
	CheckStock        *CheckStock        `json:"check_stock,omitempty"`
	ApplyDiscount     *ApplyDiscount     `json:"apply_discount,omitempty"`
	DataModification  *DataModification  `json:"data_modification,omitempty"`
	AnalyticsQuery    *AnalyticsQuery    `json:"analytics_query,omitempty"`
	ReportQuery       *ReportQuery       `json:"report_query,omitempty"`
	Navigate          *Navigate          `json:"navigate,omitempty"`
	AddExpense        *AddExpense        `json:"add_expense,omitempty"`
	LearnAlias        *LearnAlias        `json:"learn_alias,omitempty"`
	BillLookup        *BillLookup        `json:"bill_lookup,omitempty"`
	CustomerLookup    *CustomerLookup    `json:"customer_lookup,omitempty"`
	InventoryQuery    *InventoryQuery    `json:"inventory_query,omitempty"`
	KnowledgeQuery    *KnowledgeQuery    `json:"knowledge_query,omitempty"`
	InventoryForecast *InventoryForecast `json:"inventory_forecast,omitempty"`
}

// ExecResult is what the dispatcher reports back after executing a command.
type ExecResult struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	ActionTaken string    `json:"action_taken,omitempty"`
	At          time.Time `json:"at"`
}

// Float returns a pointer to v, for the optional numeric payload fields.
func Float(v float64) *float64 { return &v }

// NewAddItem builds an add-item command. Pass nil quantity when unknown.
func NewAddItem(product string, qty *float64) *Command {
	return &Command{Type: TypeAddItem, AddItem: &AddItem{ProductName: product, Quantity: qty}}
}

// NewRemoveItem builds a remove-item command.
func NewRemoveItem(product string, qty *float64) *Command {
	return &Command{Type: TypeRemoveItem, RemoveItem: &RemoveItem{ProductName: product, Quantity: qty}}
}

// NewModifyItem builds a modify-item command.
func NewModifyItem(product string, qty *float64) *Command {
	return &Command{Type: TypeModifyItem, ModifyItem: &ModifyItem{ProductName: product, Quantity: qty}}
}

// NewCheckStock builds a check-stock command.
func NewCheckStock(product string) *Command {
	return &Command{Type: TypeCheckStock, CheckStock: &CheckStock{ProductName: product}}
}

// NewApplyDiscount builds an apply-discount command.
func NewApplyDiscount(percent float64, product string) *Command {
	return &Command{Type: TypeApplyDiscount, ApplyDiscount: &ApplyDiscount{Percent: percent, ProductName: product}}
}

// NewHoldBill builds a hold-bill command.
func NewHoldBill() *Command { return &Command{Type: TypeHoldBill} }

// NewUnholdBill builds an unhold-bill command.
func NewUnholdBill() *Command { return &Command{Type: TypeUnholdBill} }

// NewDataModification builds a data-modification command.
func NewDataModification(target, product string, value *float64) *Command {
	return &Command{Type: TypeDataModification, DataModification: &DataModification{Target: target, ProductName: product, Value: value}}
}

// NewAnalyticsQuery builds an analytics-query command.
func NewAnalyticsQuery(metric, period string) *Command {
	return &Command{Type: TypeAnalyticsQuery, AnalyticsQuery: &AnalyticsQuery{Metric: metric, Period: period}}
}

// NewReportQuery builds a report-query command.
func NewReportQuery(report, period string) *Command {
	return &Command{Type: TypeReportQuery, ReportQuery: &ReportQuery{Report: report, Period: period}}
}

// NewNavigate builds a navigate command.
func NewNavigate(screen string) *Command {
	return &Command{Type: TypeNavigate, Navigate: &Navigate{Screen: screen}}
}

// NewAddExpense builds an add-expense command.
func NewAddExpense(amount *float64, reason string) *Command {
	return &Command{Type: TypeAddExpense, AddExpense: &AddExpense{Amount: amount, Reason: reason}}
}

// NewLearnAlias builds a learn-alias command.
func NewLearnAlias(alias, target string) *Command {
	return &Command{Type: TypeLearnAlias, LearnAlias: &LearnAlias{Alias: alias, Target: target}}
}

// NewClearCart builds a clear-cart command.
func NewClearCart() *Command { return &Command{Type: TypeClearCart} }

// NewBillLookup builds a bill-lookup command.
func NewBillLookup(number string) *Command {
	return &Command{Type: TypeBillLookup, BillLookup: &BillLookup{BillNumber: number}}
}

// NewCustomerLookup builds a customer-lookup command.
func NewCustomerLookup(name string) *Command {
	return &Command{Type: TypeCustomerLookup, CustomerLookup: &CustomerLookup{Name: name}}
}

// NewInventoryQuery builds an inventory-query command.
func NewInventoryQuery(filter string) *Command {
	return &Command{Type: TypeInventoryQuery, InventoryQuery: &InventoryQuery{Filter: filter}}
}

// NewKnowledgeQuery builds a knowledge-query command.
func NewKnowledgeQuery(question string) *Command {
	return &Command{Type: TypeKnowledgeQuery, KnowledgeQuery: &KnowledgeQuery{Question: question}}
}

// NewInventoryForecast builds an inventory-forecast command.
func NewInventoryForecast(product string) *Command {
	return &Command{Type: TypeInventoryForecast, InventoryForecast: &InventoryForecast{ProductName: product}}
}

// NewPurchaseOrder builds a generate-purchase-order command.
func NewPurchaseOrder() *Command { return &Command{Type: TypePurchaseOrder} }

// reportFamily holds the command types whose payload carries a period and
// which support implicit "and yesterday?" style follow-ups.
var reportFamily = map[Type]bool{
	TypeReportQuery:    true,
	TypeAnalyticsQuery: true,
}

// IsReportLike reports whether the command belongs to the report-query
// family eligible for follow-up inference.
func (c *Command) IsReportLike() bool {
	if c == nil {
		return false
	}
	return reportFamily[c.Type]
}

// WithPeriod returns a copy of a report-like command with only the period
// replaced. It returns nil for non-report commands.
func (c *Command) WithPeriod(period string) *Command {
	switch {
	case c == nil:
		return nil
	case c.Type == TypeReportQuery && c.ReportQuery != nil:
		rq := *c.ReportQuery
		rq.Period = period
		return &Command{Type: TypeReportQuery, ReportQuery: &rq}
	case c.Type == TypeAnalyticsQuery && c.AnalyticsQuery != nil:
		aq := *c.AnalyticsQuery
		aq.Period = period
		return &Command{Type: TypeAnalyticsQuery, AnalyticsQuery: &aq}
	default:
		return nil
	}
}
