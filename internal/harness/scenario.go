package harness

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/persist"
)

// Scenario describes one end-to-end catalog run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Strategy is the persistence strategy. Defaults to text.
	Strategy string `yaml:"strategy,omitempty"`

	// Policy sets the duplicate and missing-id behaviour.
	Policy inventory.Policy `yaml:"policy,omitempty"`

	// Autosave defaults to true. With autosave off, changes reach the file
	// only through a save step.
	Autosave *bool `yaml:"autosave,omitempty"`

	// Setup is written to the catalog file before the manager opens it.
	Setup []RecordSpec `yaml:"setup,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Final is the expected catalog after the last step. Nil skips the check.
	Final []RecordSpec `yaml:"final,omitempty"`

	// Reload saves, reopens the file and checks the records survived.
	Reload bool `yaml:"reload,omitempty"`

	// Session is the fixed session id. Defaults to "test-session".
	Session string `yaml:"session,omitempty"`
}

// RecordSpec is a record with its price written as text.
type RecordSpec struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Quantity int    `yaml:"quantity"`
}

// Record converts r to an inventory record, keeping the name as written.
func (r RecordSpec) Record() (inventory.Record, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return inventory.Record{}, fmt.Errorf("id %d: invalid price %q", r.ID, r.Price)
	}
	return inventory.Record{ID: r.ID, Name: r.Name, Price: price, Quantity: r.Quantity}, nil
}

// Step is one operation against the manager.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	ID       int     `yaml:"id,omitempty"`
	Name     *string `yaml:"name,omitempty"`
	Price    *string `yaml:"price,omitempty"`
	Quantity *int    `yaml:"quantity,omitempty"`

	// Expect is the expected error code. Empty (or "ok") means success.
	Expect string `yaml:"expect,omitempty"`

	// Count is the expected number of records touched by update or remove.
	Count *int `yaml:"count,omitempty"`

	// Want is the record find or sell should return.
	Want *RecordSpec `yaml:"want,omitempty"`
}

// Step operations.
const (
	OpAdd    = "add"
	OpFind   = "find"
	OpSell   = "sell"
	OpUpdate = "update"
	OpRemove = "remove"
	OpClear  = "clear"
	OpSave   = "save"
	OpReload = "reload"
)

// Outcome codes a step may expect besides the inventory error codes.
const (
	OutcomeOK          = "ok"
	OutcomeFormatError = "FORMAT_ERROR"
	OutcomeIOFailure   = "IO_FAILURE"
)

var knownOutcomes = map[string]bool{
	"":                                         true,
	OutcomeOK:                                  true,
	OutcomeFormatError:                         true,
	OutcomeIOFailure:                           true,
	string(inventory.ErrCodeNotFound):          true,
	string(inventory.ErrCodeInsufficientStock): true,
	string(inventory.ErrCodeConflict):          true,
	string(inventory.ErrCodeInvalid):           true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML, rejecting unknown fields.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// strategy returns the scenario's persistence strategy.
func (s *Scenario) strategy() persist.Strategy {
	if s.Strategy == "" {
		return persist.StrategyText
	}
	return persist.Strategy(s.Strategy)
}

func (s *Scenario) autosave() bool {
	return s.Autosave == nil || *s.Autosave
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := persist.ParseStrategy(string(s.strategy())); err != nil {
		return err
	}

	if _, err := inventory.ParsePolicy(string(s.Policy.Duplicates), string(s.Policy.Missing)); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, r := range s.Setup {
		if _, err := r.Record(); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}

	for i, r := range s.Final {
		if _, err := r.Record(); err != nil {
			return fmt.Errorf("final[%d]: %w", i, err)
		}
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateStep checks that a step carries what its op needs.
func validateStep(index int, st *Step) error {
	switch st.Op {
	case OpAdd:
		if st.Name == nil || st.Price == nil || st.Quantity == nil {
			return fmt.Errorf("steps[%d]: add requires name, price and quantity", index)
		}
	case OpSell:
		if st.Quantity == nil {
			return fmt.Errorf("steps[%d]: sell requires quantity", index)
		}
	case OpUpdate:
		if st.Name == nil && st.Price == nil && st.Quantity == nil {
			return fmt.Errorf("steps[%d]: update requires name, price or quantity", index)
		}
	case OpFind, OpRemove, OpClear, OpSave, OpReload:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if !knownOutcomes[st.Expect] {
		return fmt.Errorf("steps[%d]: unknown expected outcome %q", index, st.Expect)
	}

	if st.Count != nil && st.Op != OpUpdate && st.Op != OpRemove {
		return fmt.Errorf("steps[%d]: count only applies to update and remove", index)
	}

	if st.Want != nil {
		if st.Op != OpFind && st.Op != OpSell {
			return fmt.Errorf("steps[%d]: want only applies to find and sell", index)
		}
		if _, err := st.Want.Record(); err != nil {
			return fmt.Errorf("steps[%d].want: %w", index, err)
		}
	}

	return nil
}
