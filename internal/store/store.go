// Package store provides SQLite-backed persistence for the POS assistant.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukaan-dev/sahayak/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store provides access to the assistant's SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// WAL keeps the REPL responsive while the daemon writes.
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS aliases (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS training_examples (
		id TEXT PRIMARY KEY,
		utterance TEXT NOT NULL,
		intent TEXT NOT NULL,
		entities TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		stock REAL NOT NULL DEFAULT 0,
		price REAL NOT NULL DEFAULT 0,
		discount_pct REAL NOT NULL DEFAULT 0,
		min_stock REAL NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		number INTEGER NOT NULL,
		customer TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		discount_pct REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS bill_items (
		id TEXT PRIMARY KEY,
		bill_id TEXT NOT NULL,
		product_name TEXT NOT NULL,
		quantity REAL NOT NULL,
		unit_price REAL NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (bill_id) REFERENCES bills(id)
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		amount REAL NOT NULL,
		reason TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS faq_entries (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS interpretations (
		id TEXT PRIMARY KEY,
		utterance TEXT NOT NULL,
		route TEXT NOT NULL,
		command_type TEXT,
		score REAL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status);
	CREATE INDEX IF NOT EXISTS idx_bill_items_bill_id ON bill_items(bill_id);
	CREATE INDEX IF NOT EXISTS idx_expenses_created_at ON expenses(created_at);
	CREATE INDEX IF NOT EXISTS idx_interpretations_created_at ON interpretations(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// --- Alias Operations ---

// GetAlias looks up a learned alias. Keys are case-insensitive.
func (s *Store) GetAlias(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM aliases WHERE key = ?`,
		strings.ToLower(strings.TrimSpace(key)),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query alias: %w", err)
	}
	return value, true, nil
}

// SetAlias writes or overwrites a learned alias. Last writer wins.
func (s *Store) SetAlias(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO aliases (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		strings.ToLower(strings.TrimSpace(key)), value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert alias: %w", err)
	}
	return nil
}

// ListAliases returns every learned alias mapping.
func (s *Store) ListAliases() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM aliases ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

// --- Training Corpus Operations ---

// AddTrainingExample persists one corpus example.
func (s *Store) AddTrainingExample(utterance, intent string, entities map[string]string) (*models.TrainingExample, error) {
	now := time.Now().UTC()
	ex := &models.TrainingExample{
		ID:        uuid.New().String(),
		Utterance: utterance,
		Intent:    intent,
		Entities:  entities,
		CreatedAt: now,
	}
	entitiesJSON, _ := json.Marshal(entities)

	_, err := s.db.Exec(
		`INSERT INTO training_examples (id, utterance, intent, entities, created_at) VALUES (?, ?, ?, ?, ?)`,
		ex.ID, ex.Utterance, ex.Intent, string(entitiesJSON), ex.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert training example: %w", err)
	}
	return ex, nil
}

// ListTrainingExamples returns the full persisted corpus.
func (s *Store) ListTrainingExamples() ([]models.TrainingExample, error) {
	rows, err := s.db.Query(
		`SELECT id, utterance, intent, entities, created_at FROM training_examples ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("query training examples: %w", err)
	}
	defer rows.Close()

	var examples []models.TrainingExample
	for rows.Next() {
		var ex models.TrainingExample
		var entitiesJSON sql.NullString
		if err := rows.Scan(&ex.ID, &ex.Utterance, &ex.Intent, &entitiesJSON, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan training example: %w", err)
		}
		if entitiesJSON.Valid && entitiesJSON.String != "" {
			json.Unmarshal([]byte(entitiesJSON.String), &ex.Entities)
		}
		examples = append(examples, ex)
	}
	return examples, rows.Err()
}

// --- Product Operations ---

// ErrProductNotFound indicates a lookup for an unknown product.
var ErrProductNotFound = fmt.Errorf("product not found")

// UpsertProduct creates a product or updates its fields by name.
func (s *Store) UpsertProduct(name string, stock, price, minStock float64) (*models.Product, error) {
	now := time.Now().UTC()
	name = strings.ToLower(strings.TrimSpace(name))

	_, err := s.db.Exec(
		`INSERT INTO products (id, name, stock, price, min_stock, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET stock = excluded.stock, price = excluded.price,
		 min_stock = excluded.min_stock, updated_at = excluded.updated_at`,
		uuid.New().String(), name, stock, price, minStock, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert product: %w", err)
	}
	return s.GetProduct(name)
}

// GetProduct retrieves a product by name, or ErrProductNotFound.
func (s *Store) GetProduct(name string) (*models.Product, error) {
	p := &models.Product{}
	err := s.db.QueryRow(
		`SELECT id, name, stock, price, discount_pct, min_stock, updated_at FROM products WHERE name = ?`,
		strings.ToLower(strings.TrimSpace(name)),
	).Scan(&p.ID, &p.Name, &p.Stock, &p.Price, &p.DiscountPct, &p.MinStock, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

// AdjustStock changes a product's stock by delta (negative to deduct).
func (s *Store) AdjustStock(name string, delta float64) error {
	res, err := s.db.Exec(
		`UPDATE products SET stock = stock + ?, updated_at = ? WHERE name = ?`,
		delta, time.Now().UTC(), strings.ToLower(strings.TrimSpace(name)),
	)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetProductField sets one numeric field of a product record.
func (s *Store) SetProductField(name, field string, value float64) error {
	var column string
	switch field {
	case "price":
		column = "price"
	case "stock":
		column = "stock"
	case "discount":
		column = "discount_pct"
	case "min-stock":
		column = "min_stock"
	default:
		return fmt.Errorf("unknown product field %q", field)
	}

	res, err := s.db.Exec(
		// column is validated against the closed set above
		fmt.Sprintf(`UPDATE products SET %s = ?, updated_at = ? WHERE name = ?`, column),
		value, time.Now().UTC(), strings.ToLower(strings.TrimSpace(name)),
	)
	if err != nil {
		return fmt.Errorf("set product %s: %w", field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ListProducts returns products, optionally only those at or below their
// minimum stock ("low") or fully out of stock ("out").
func (s *Store) ListProducts(filter string) ([]models.Product, error) {
	query := `SELECT id, name, stock, price, discount_pct, min_stock, updated_at FROM products`
	switch filter {
	case "low":
		query += ` WHERE stock <= min_stock`
	case "out":
		query += ` WHERE stock <= 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Price, &p.DiscountPct, &p.MinStock, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// --- Bill Operations ---

// ErrNoActiveBill indicates there is no bill currently being rung up.
var ErrNoActiveBill = fmt.Errorf("no active bill")

// ErrNoHeldBill indicates there is no parked bill to resume.
var ErrNoHeldBill = fmt.Errorf("no held bill")

// ActiveBill returns the current active bill, creating one if none exists.
func (s *Store) ActiveBill() (*models.Bill, error) {
	b, err := s.billByStatus(models.BillStatusActive)
	if err == nil {
		return b, nil
	}
	if err != ErrNoActiveBill {
		return nil, err
	}

	now := time.Now().UTC()
	var maxNumber sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(number) FROM bills`).Scan(&maxNumber); err != nil {
		return nil, fmt.Errorf("query max bill number: %w", err)
	}

	bill := &models.Bill{
		ID:        uuid.New().String(),
		Number:    maxNumber.Int64 + 1,
		Status:    models.BillStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.db.Exec(
		`INSERT INTO bills (id, number, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		bill.ID, bill.Number, bill.Status, bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bill: %w", err)
	}
	return bill, nil
}

func (s *Store) billByStatus(status models.BillStatus) (*models.Bill, error) {
	b := &models.Bill{}
	var customer sql.NullString
	err := s.db.QueryRow(
		`SELECT id, number, customer, status, discount_pct, created_at, updated_at
		 FROM bills WHERE status = ? ORDER BY updated_at DESC LIMIT 1`,
		status,
	).Scan(&b.ID, &b.Number, &customer, &b.Status, &b.Discount, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		if status == models.BillStatusHeld {
			return nil, ErrNoHeldBill
		}
		return nil, ErrNoActiveBill
	}
	if err != nil {
		return nil, fmt.Errorf("query bill: %w", err)
	}
	if customer.Valid {
		b.Customer = customer.String
	}
	return b, nil
}

// GetBillByNumber retrieves a bill by its visible number.
func (s *Store) GetBillByNumber(number int64) (*models.Bill, error) {
	b := &models.Bill{}
	var customer sql.NullString
	err := s.db.QueryRow(
		`SELECT id, number, customer, status, discount_pct, created_at, updated_at FROM bills WHERE number = ?`,
		number,
	).Scan(&b.ID, &b.Number, &customer, &b.Status, &b.Discount, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query bill: %w", err)
	}
	if customer.Valid {
		b.Customer = customer.String
	}
	return b, nil
}

// SetBillStatus moves a bill to a new status.
func (s *Store) SetBillStatus(billID string, status models.BillStatus) error {
	_, err := s.db.Exec(
		`UPDATE bills SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), billID,
	)
	return err
}

// HoldActiveBill parks the active bill. Returns ErrNoActiveBill when
// nothing is being rung up.
func (s *Store) HoldActiveBill() (*models.Bill, error) {
	b, err := s.billByStatus(models.BillStatusActive)
	if err != nil {
		return nil, err
	}
	if err := s.SetBillStatus(b.ID, models.BillStatusHeld); err != nil {
		return nil, err
	}
	b.Status = models.BillStatusHeld
	return b, nil
}

// UnholdBill resumes the most recently held bill.
func (s *Store) UnholdBill() (*models.Bill, error) {
	b, err := s.billByStatus(models.BillStatusHeld)
	if err != nil {
		return nil, err
	}
	if err := s.SetBillStatus(b.ID, models.BillStatusActive); err != nil {
		return nil, err
	}
	b.Status = models.BillStatusActive
	return b, nil
}

// SetBillDiscount applies a percentage discount to a bill.
func (s *Store) SetBillDiscount(billID string, pct float64) error {
	_, err := s.db.Exec(
		`UPDATE bills SET discount_pct = ?, updated_at = ? WHERE id = ?`,
		pct, time.Now().UTC(), billID,
	)
	return err
}

// AddBillItem appends a line to a bill.
func (s *Store) AddBillItem(billID, productName string, quantity, unitPrice float64) (*models.BillItem, error) {
	now := time.Now().UTC()
	item := &models.BillItem{
		ID:          uuid.New().String(),
		BillID:      billID,
		ProductName: strings.ToLower(strings.TrimSpace(productName)),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		CreatedAt:   now,
	}
	_, err := s.db.Exec(
		`INSERT INTO bill_items (id, bill_id, product_name, quantity, unit_price, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.BillID, item.ProductName, item.Quantity, item.UnitPrice, item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert bill item: %w", err)
	}
	return item, nil
}

// RemoveBillItem deletes lines for a product from a bill. Returns the
// number of lines removed.
func (s *Store) RemoveBillItem(billID, productName string) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM bill_items WHERE bill_id = ? AND product_name = ?`,
		billID, strings.ToLower(strings.TrimSpace(productName)),
	)
	if err != nil {
		return 0, fmt.Errorf("delete bill item: %w", err)
	}
	return res.RowsAffected()
}

// SetBillItemQuantity updates the quantity of a product line on a bill.
func (s *Store) SetBillItemQuantity(billID, productName string, quantity float64) error {
	res, err := s.db.Exec(
		`UPDATE bill_items SET quantity = ? WHERE bill_id = ? AND product_name = ?`,
		quantity, billID, strings.ToLower(strings.TrimSpace(productName)),
	)
	if err != nil {
		return fmt.Errorf("update bill item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("no %s line on bill", productName)
	}
	return nil
}

// ClearBillItems removes every line from a bill.
func (s *Store) ClearBillItems(billID string) error {
	_, err := s.db.Exec(`DELETE FROM bill_items WHERE bill_id = ?`, billID)
	return err
}

// BillItems returns the lines on a bill.
func (s *Store) BillItems(billID string) ([]models.BillItem, error) {
	rows, err := s.db.Query(
		`SELECT id, bill_id, product_name, quantity, unit_price, created_at FROM bill_items WHERE bill_id = ? ORDER BY created_at`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("query bill items: %w", err)
	}
	defer rows.Close()

	var items []models.BillItem
	for rows.Next() {
		var it models.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bill item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// FindBillsByCustomer returns bills for a customer name (case-insensitive).
func (s *Store) FindBillsByCustomer(name string) ([]models.Bill, error) {
	rows, err := s.db.Query(
		`SELECT id, number, customer, status, discount_pct, created_at, updated_at
		 FROM bills WHERE LOWER(customer) = ? ORDER BY created_at DESC`,
		strings.ToLower(strings.TrimSpace(name)),
	)
	if err != nil {
		return nil, fmt.Errorf("query bills by customer: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		var customer sql.NullString
		if err := rows.Scan(&b.ID, &b.Number, &customer, &b.Status, &b.Discount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		if customer.Valid {
			b.Customer = customer.String
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// --- Sales Aggregates ---

// SalesTotal sums paid bill lines in [from, to).
func (s *Store) SalesTotal(from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT SUM(bi.quantity * bi.unit_price) FROM bill_items bi
		 JOIN bills b ON b.id = bi.bill_id
		 WHERE b.status = ? AND b.updated_at >= ? AND b.updated_at < ?`,
		models.BillStatusPaid, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query sales total: %w", err)
	}
	return total.Float64, nil
}

// BestSeller returns the product with the highest quantity sold in [from, to).
func (s *Store) BestSeller(from, to time.Time) (string, float64, error) {
	var name string
	var qty float64
	err := s.db.QueryRow(
		`SELECT bi.product_name, SUM(bi.quantity) AS sold FROM bill_items bi
		 JOIN bills b ON b.id = bi.bill_id
		 WHERE b.status = ? AND b.updated_at >= ? AND b.updated_at < ?
		 GROUP BY bi.product_name ORDER BY sold DESC LIMIT 1`,
		models.BillStatusPaid, from, to,
	).Scan(&name, &qty)
	if err == sql.ErrNoRows {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("query best seller: %w", err)
	}
	return name, qty, nil
}

// CustomerCount counts paid bills in [from, to).
func (s *Store) CustomerCount(from, to time.Time) (int64, error) {
	var n int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM bills WHERE status = ? AND updated_at >= ? AND updated_at < ?`,
		models.BillStatusPaid, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("query customer count: %w", err)
	}
	return n, nil
}

// QuantitySold sums the quantity of one product sold in [from, to).
func (s *Store) QuantitySold(productName string, from, to time.Time) (float64, error) {
	var qty sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT SUM(bi.quantity) FROM bill_items bi
		 JOIN bills b ON b.id = bi.bill_id
		 WHERE b.status = ? AND bi.product_name = ? AND b.updated_at >= ? AND b.updated_at < ?`,
		models.BillStatusPaid, strings.ToLower(strings.TrimSpace(productName)), from, to,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("query quantity sold: %w", err)
	}
	return qty.Float64, nil
}

// --- Expense Operations ---

// AddExpense records a cash expense.
func (s *Store) AddExpense(amount float64, reason string) (*models.Expense, error) {
	now := time.Now().UTC()
	e := &models.Expense{
		ID:        uuid.New().String(),
		Amount:    amount,
		Reason:    reason,
		CreatedAt: now,
	}
	_, err := s.db.Exec(
		`INSERT INTO expenses (id, amount, reason, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Amount, e.Reason, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

// ExpenseTotal sums expenses in [from, to).
func (s *Store) ExpenseTotal(from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT SUM(amount) FROM expenses WHERE created_at >= ? AND created_at < ?`,
		from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query expense total: %w", err)
	}
	return total.Float64, nil
}

// --- FAQ Operations ---

// AddFAQEntry stores one question/answer pair.
func (s *Store) AddFAQEntry(question, answer string) (*models.FAQEntry, error) {
	e := &models.FAQEntry{
		ID:       uuid.New().String(),
		Question: question,
		Answer:   answer,
	}
	_, err := s.db.Exec(
		`INSERT INTO faq_entries (id, question, answer) VALUES (?, ?, ?)`,
		e.ID, e.Question, e.Answer,
	)
	if err != nil {
		return nil, fmt.Errorf("insert faq entry: %w", err)
	}
	return e, nil
}

// ListFAQEntries returns all FAQ entries.
func (s *Store) ListFAQEntries() ([]models.FAQEntry, error) {
	rows, err := s.db.Query(`SELECT id, question, answer FROM faq_entries`)
	if err != nil {
		return nil, fmt.Errorf("query faq entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FAQEntry
	for rows.Next() {
		var e models.FAQEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer); err != nil {
			return nil, fmt.Errorf("scan faq entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Interpretation Audit ---

// RecordInterpretation writes one audit row for an interpreter turn.
func (s *Store) RecordInterpretation(utterance, route, commandType string, score float64) (*models.Interpretation, error) {
	now := time.Now().UTC()
	rec := &models.Interpretation{
		ID:          uuid.New().String(),
		Utterance:   utterance,
		Route:       route,
		CommandType: commandType,
		Score:       score,
		CreatedAt:   now,
	}
	_, err := s.db.Exec(
		`INSERT INTO interpretations (id, utterance, route, command_type, score, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Utterance, rec.Route, rec.CommandType, rec.Score, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert interpretation: %w", err)
	}
	return rec, nil
}

// RecentInterpretations returns the latest audit rows, newest first.
func (s *Store) RecentInterpretations(limit int) ([]models.Interpretation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, utterance, route, command_type, score, created_at FROM interpretations
		 ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query interpretations: %w", err)
	}
	defer rows.Close()

	var recs []models.Interpretation
	for rows.Next() {
		var rec models.Interpretation
		var cmdType sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.Utterance, &rec.Route, &cmdType, &score, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interpretation: %w", err)
		}
		if cmdType.Valid {
			rec.CommandType = cmdType.String
		}
		if score.Valid {
			rec.Score = score.Float64
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
