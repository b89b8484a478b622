// Package corpus supplies the training examples the fuzzy matcher learns
// from: a built-in default set, optional YAML corpus files, and examples
// persisted in the store.
package corpus

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dukaan-dev/sahayak/internal/fuzzy"
	"github.com/dukaan-dev/sahayak/internal/models"
)

// file is the YAML corpus document shape.
type file struct {
	Examples []fuzzy.Example `yaml:"examples"`
}

// Load reads a YAML corpus file. Examples without an utterance or an
// intent are rejected rather than silently skipped, so a typo in the
// file surfaces at startup.
func Load(path string) ([]fuzzy.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}
	for i, ex := range doc.Examples {
		if ex.Utterance == "" || ex.Intent == "" {
			return nil, fmt.Errorf("corpus %s: example %d is missing utterance or intent", path, i+1)
		}
	}
	return doc.Examples, nil
}

// Save writes examples to a YAML corpus file.
func Save(path string, examples []fuzzy.Example) error {
	data, err := yaml.Marshal(file{Examples: examples})
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	return nil
}

// trainingStore is the slice of the store the corpus needs.
type trainingStore interface {
	AddTrainingExample(utterance, intent string, entities map[string]string) (*models.TrainingExample, error)
	ListTrainingExamples() ([]models.TrainingExample, error)
}

// FromStore loads the persisted examples as matcher input.
func FromStore(st trainingStore) ([]fuzzy.Example, error) {
	persisted, err := st.ListTrainingExamples()
	if err != nil {
		return nil, fmt.Errorf("load training examples: %w", err)
	}
	examples := make([]fuzzy.Example, 0, len(persisted))
	for _, ex := range persisted {
		examples = append(examples, fuzzy.Example{
			Utterance: ex.Utterance,
			Intent:    ex.Intent,
			Entities:  ex.Entities,
		})
	}
	return examples, nil
}

// Persist writes examples into the store. Already-persisted duplicates
// are not detected; callers persist a corpus at most once.
func Persist(st trainingStore, examples []fuzzy.Example) error {
	for _, ex := range examples {
		if _, err := st.AddTrainingExample(ex.Utterance, ex.Intent, ex.Entities); err != nil {
			return err
		}
	}
	return nil
}

// Default is the built-in starter corpus. It leans on phrasings the rule
// table does not already cover, since pattern routing wins whenever it
// matches.
func Default() []fuzzy.Example {
	return []fuzzy.Example{
		{Utterance: "put two packets of milk on the bill", Intent: "add-item",
			Entities: map[string]string{"product": "milk", "quantity": "2"}},
		{Utterance: "customer wants one kg sugar", Intent: "add-item",
			Entities: map[string]string{"product": "sugar", "quantity": "1"}},
		{Utterance: "bill me char doodh", Intent: "add-item",
			Entities: map[string]string{"product": "milk"}},
		{Utterance: "take the sugar off the bill", Intent: "remove-item",
			Entities: map[string]string{"product": "sugar"}},
		{Utterance: "this item is wrong remove it", Intent: "remove-item", Entities: map[string]string{}},
		{Utterance: "make it three packets instead", Intent: "modify-item", Entities: map[string]string{}},
		{Utterance: "do we still have rice", Intent: "check-stock",
			Entities: map[string]string{"product": "rice"}},
		{Utterance: "kitna stock hai doodh ka", Intent: "check-stock",
			Entities: map[string]string{"product": "milk"}},
		{Utterance: "is there any tea left in the shop", Intent: "check-stock",
			Entities: map[string]string{"product": "tea"}},
		{Utterance: "give ten percent off on this", Intent: "apply-discount",
			Entities: map[string]string{"percent": "10"}},
		{Utterance: "customer is asking for discount", Intent: "apply-discount", Entities: map[string]string{}},
		{Utterance: "keep this bill aside for now", Intent: "hold-bill", Entities: map[string]string{}},
		{Utterance: "customer stepped out hold it", Intent: "hold-bill", Entities: map[string]string{}},
		{Utterance: "he is back bring his bill", Intent: "unhold-bill", Entities: map[string]string{}},
		{Utterance: "wrong bill start a new one", Intent: "clear-cart", Entities: map[string]string{}},
		{Utterance: "scrap everything and begin again", Intent: "clear-cart", Entities: map[string]string{}},
		{Utterance: "the rate of milk has gone up to fifty", Intent: "data-modification",
			Entities: map[string]string{"target": "price", "product": "milk"}},
		{Utterance: "new stock arrived update sugar count", Intent: "data-modification",
			Entities: map[string]string{"target": "stock", "product": "sugar"}},
		{Utterance: "how much did i earn", Intent: "analytics-query",
			Entities: map[string]string{"metric": "total-sales"}},
		{Utterance: "kitna becha aaj", Intent: "analytics-query",
			Entities: map[string]string{"metric": "total-sales", "period": "today"}},
		{Utterance: "which item moves the fastest", Intent: "analytics-query",
			Entities: map[string]string{"metric": "best-seller"}},
		{Utterance: "footfall kitna tha", Intent: "analytics-query",
			Entities: map[string]string{"metric": "customer-count"}},
		{Utterance: "show me how the shop did", Intent: "report-query",
			Entities: map[string]string{"report": "sales"}},
		{Utterance: "kharcha ka hisaab dikhao", Intent: "report-query",
			Entities: map[string]string{"report": "expense"}},
		{Utterance: "udhaar list batao", Intent: "report-query",
			Entities: map[string]string{"report": "credit"}},
		{Utterance: "paid the electricity bill three hundred", Intent: "add-expense",
			Entities: map[string]string{"amount": "300", "reason": "electricity"}},
		{Utterance: "gave the delivery boy fifty rupees", Intent: "add-expense",
			Entities: map[string]string{"amount": "50", "reason": "delivery"}},
		{Utterance: "open the billing screen", Intent: "navigate",
			Entities: map[string]string{"screen": "billing"}},
		{Utterance: "where are my settings", Intent: "navigate",
			Entities: map[string]string{"screen": "settings"}},
		{Utterance: "pull up yesterdays bill number twelve", Intent: "bill-lookup",
			Entities: map[string]string{"bill_number": "12"}},
		{Utterance: "us bill ko kholo", Intent: "bill-lookup", Entities: map[string]string{}},
		{Utterance: "ramesh ka khata dikhao", Intent: "customer-lookup",
			Entities: map[string]string{"name": "ramesh"}},
		{Utterance: "which customer owes the most", Intent: "customer-lookup", Entities: map[string]string{}},
		{Utterance: "what is running low in the shop", Intent: "inventory-query",
			Entities: map[string]string{"filter": "low"}},
		{Utterance: "kya kya khatam ho gaya", Intent: "inventory-query",
			Entities: map[string]string{"filter": "out"}},
		{Utterance: "will the milk last the week", Intent: "inventory-forecast",
			Entities: map[string]string{"product": "milk"}},
		{Utterance: "generate purchase order", Intent: "generate-purchase-order", Entities: map[string]string{}},
		{Utterance: "what do i tell the supplier to send", Intent: "generate-purchase-order",
			Entities: map[string]string{}},
		{Utterance: "how do i issue a refund", Intent: "knowledge-query",
			Entities: map[string]string{"question": "how do i issue a refund"}},
		{Utterance: "gst kaise file karu", Intent: "knowledge-query",
			Entities: map[string]string{"question": "gst kaise file karu"}},
		{Utterance: "remember that bourbon means biscuit", Intent: "learn-alias",
			Entities: map[string]string{"alias": "bourbon", "target": "biscuit"}},
	}
}
