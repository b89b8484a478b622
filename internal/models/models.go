// Package models defines the persisted domain types for the POS data layer.
package models

import "time"

// BillStatus represents the lifecycle state of a bill.
type BillStatus string

const (
	BillStatusActive BillStatus = "active"
	BillStatusHeld   BillStatus = "held"
	BillStatusPaid   BillStatus = "paid"
	BillStatusVoid   BillStatus = "void"
)

// Product is an inventory record.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Stock       float64   `json:"stock"`
	Price       float64   `json:"price"`
	DiscountPct float64   `json:"discount_pct"`
	MinStock    float64   `json:"min_stock"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Bill is one customer transaction, active while being rung up.
type Bill struct {
	ID        string     `json:"id"`
	Number    int64      `json:"number"`
	Customer  string     `json:"customer,omitempty"`
	Status    BillStatus `json:"status"`
	Discount  float64    `json:"discount_pct"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// BillItem is one line on a bill.
type BillItem struct {
	ID          string    `json:"id"`
	BillID      string    `json:"bill_id"`
	ProductName string    `json:"product_name"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expense is a recorded cash outflow.
type Expense struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TrainingExample is one utterance->intent mapping in the fuzzy corpus.
type TrainingExample struct {
	ID        string            `json:"id"`
	Utterance string            `json:"utterance"`
	Intent    string            `json:"intent"`
	Entities  map[string]string `json:"entities,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// FAQEntry is one question/answer pair for the knowledge responder.
type FAQEntry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Interpretation is an audit record of one interpreter turn.
type Interpretation struct {
	ID          string    `json:"id"`
	Utterance   string    `json:"utterance"`
	Route       string    `json:"route"` // context, followup, pattern, fuzzy, none
	CommandType string    `json:"command_type,omitempty"`
	Score       float64   `json:"score,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
