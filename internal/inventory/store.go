package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Store is the in-memory authoritative collection of records.
type Store struct {
	policy  Policy
	records []Record
}

// Patch lists the fields Update overwrites. Nil fields are left unchanged.
type Patch struct {
	Name     *string
	Price    *decimal.Decimal
	Quantity *int
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Quantity == nil
}

// NewStore creates a Store holding a copy of records, typically the result of
// a persistence load.
func NewStore(policy Policy, records []Record) *Store {
	s := &Store{
		policy:  policy.withDefaults(),
		records: make([]Record, 0, len(records)),
	}
	s.records = append(s.records, records...)
	return s
}

// Policy returns the behaviour the Store was created with.
func (s *Store) Policy() Policy {
	return s.policy
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Add appends a record after validating it.
func (s *Store) Add(r Record) error {
	r = normalize(r)
	if err := Validate(r); err != nil {
		return err
	}
	if s.policy.Duplicates == DuplicatesReject && s.index(r.ID) >= 0 {
		return conflictError(r.ID)
	}
	s.records = append(s.records, r)
	return nil
}

// Find returns the first record with the given id.
func (s *Store) Find(id int) (Record, error) {
	i := s.index(id)
	if i < 0 {
		return Record{}, notFoundError(id)
	}
	return s.records[i], nil
}

// List returns a copy of all records in insertion order.
func (s *Store) List() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Sell decrements the quantity of the first record with the given id and
// returns the updated record.
func (s *Store) Sell(id, qty int) (Record, error) {
	if qty <= 0 {
		return Record{}, invalidError(id, map[string]string{"quantity": "must be positive"})
	}
	i := s.index(id)
	if i < 0 {
		return Record{}, notFoundError(id)
	}
	if qty > s.records[i].Quantity {
		return Record{}, insufficientStockError(id, qty, s.records[i].Quantity)
	}
	s.records[i].Quantity -= qty
	return s.records[i], nil
}

// Update overwrites the patched fields on every record with the given id and
// returns how many records changed. Either all matches are updated or none.
func (s *Store) Update(id int, p Patch) (int, error) {
	var matches []int
	for i := range s.records {
		if s.records[i].ID == id {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		if s.policy.Missing == MissingError {
			return 0, notFoundError(id)
		}
		return 0, nil
	}

	updated := make([]Record, len(matches))
	for n, i := range matches {
		r := s.records[i]
		if p.Name != nil {
			r.Name = *p.Name
		}
		if p.Price != nil {
			r.Price = *p.Price
		}
		if p.Quantity != nil {
			r.Quantity = *p.Quantity
		}
		r = normalize(r)
		if err := Validate(r); err != nil {
			return 0, err
		}
		updated[n] = r
	}
	for n, i := range matches {
		s.records[i] = updated[n]
	}
	return len(matches), nil
}

// Remove deletes every record with the given id and returns how many were removed.
func (s *Store) Remove(id int) (int, error) {
	kept := s.records[:0:0]
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	removed := len(s.records) - len(kept)
	if removed == 0 {
		if s.policy.Missing == MissingError {
			return 0, notFoundError(id)
		}
		return 0, nil
	}
	s.records = kept
	return removed, nil
}

// Clear removes all records.
func (s *Store) Clear() {
	s.records = s.records[:0:0]
}

func (s *Store) index(id int) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) String() string {
	return fmt.Sprintf("Store{records=%d, duplicates=%s, missing=%s}", len(s.records), s.policy.Duplicates, s.policy.Missing)
}
