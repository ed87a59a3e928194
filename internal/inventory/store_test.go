package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, id int, name string, qty int, price string) Record {
	t.Helper()
	r, err := NewRecord(id, name, qty, price)
	require.NoError(t, err)
	return r
}

func rows(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.String()
	}
	return out
}

func seeded(t *testing.T, policy Policy) *Store {
	t.Helper()
	s := NewStore(policy, nil)
	require.NoError(t, s.Add(mustRecord(t, 1, "Sofa", 5, "499.99")))
	require.NoError(t, s.Add(mustRecord(t, 2, "Chair", 10, "89.50")))
	return s
}

func TestStore_SellScenario(t *testing.T) {
	s := seeded(t, DefaultPolicy())

	got, err := s.Sell(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	assert.Equal(t, []string{"1,Sofa,3,499.99", "2,Chair,10,89.5"}, rows(s.List()))
}

func TestStore_SellInsufficientStockLeavesStoreUnchanged(t *testing.T) {
	s := seeded(t, DefaultPolicy())
	_, err := s.Sell(1, 2)
	require.NoError(t, err)

	_, err = s.Sell(1, 100)
	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))

	var ie *Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "100", ie.Details["requested"])
	assert.Equal(t, "3", ie.Details["available"])

	r, err := s.Find(1)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Quantity)
}

func TestStore_SellExactQuantityReachesZero(t *testing.T) {
	s := seeded(t, DefaultPolicy())

	got, err := s.Sell(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	_, err = s.Sell(2, 1)
	assert.True(t, IsInsufficientStock(err))
}

func TestStore_SellRejectsNonPositiveQuantity(t *testing.T) {
	s := seeded(t, DefaultPolicy())

	for _, qty := range []int{0, -1} {
		_, err := s.Sell(1, qty)
		assert.True(t, IsInvalid(err), "qty=%d", qty)
	}
	r, _ := s.Find(1)
	assert.Equal(t, 5, r.Quantity)
}

func TestStore_UnknownIDs(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		op     func(s *Store) error
		want   ErrorCode
	}{
		{"find", DefaultPolicy(), func(s *Store) error { _, err := s.Find(42); return err }, ErrCodeNotFound},
		{"sell", DefaultPolicy(), func(s *Store) error { _, err := s.Sell(42, 1); return err }, ErrCodeNotFound},
		{"update_ignored", DefaultPolicy(), func(s *Store) error {
			name := "Bed"
			_, err := s.Update(42, Patch{Name: &name})
			return err
		}, ""},
		{"remove_ignored", DefaultPolicy(), func(s *Store) error { _, err := s.Remove(42); return err }, ""},
		{"update_strict", Policy{Missing: MissingError}, func(s *Store) error {
			name := "Bed"
			_, err := s.Update(42, Patch{Name: &name})
			return err
		}, ErrCodeNotFound},
		{"remove_strict", Policy{Missing: MissingError}, func(s *Store) error { _, err := s.Remove(42); return err }, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seeded(t, tt.policy)
			before := rows(s.List())

			err := tt.op(s)
			if tt.want == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.want, CodeOf(err))
			}
			assert.Equal(t, before, rows(s.List()))
		})
	}
}

func TestStore_AddPreservesInsertionOrder(t *testing.T) {
	s := NewStore(DefaultPolicy(), nil)
	ids := []int{7, 3, 9, 1, 5}
	for _, id := range ids {
		require.NoError(t, s.Add(mustRecord(t, id, "Item", 1, "1")))
	}

	got := make([]int, 0, len(ids))
	for _, r := range s.List() {
		got = append(got, r.ID)
	}
	assert.Equal(t, ids, got)
}

func TestStore_DuplicatePolicy(t *testing.T) {
	t.Run("permit", func(t *testing.T) {
		s := seeded(t, DefaultPolicy())
		require.NoError(t, s.Add(mustRecord(t, 1, "Loveseat", 2, "299")))
		assert.Equal(t, 3, s.Len())

		r, err := s.Find(1)
		require.NoError(t, err)
		assert.Equal(t, "Sofa", r.Name, "first match wins")
	})

	t.Run("reject", func(t *testing.T) {
		s := seeded(t, Policy{Duplicates: DuplicatesReject})
		err := s.Add(mustRecord(t, 1, "Loveseat", 2, "299"))
		assert.True(t, IsConflict(err))
		assert.Equal(t, 2, s.Len())
	})
}

func TestStore_AddValidates(t *testing.T) {
	tests := []struct {
		name  string
		rec   Record
		field string
	}{
		{"empty name", Record{ID: 1, Name: "  ", Price: decimal.NewFromInt(1), Quantity: 1}, "name"},
		{"negative quantity", Record{ID: 1, Name: "Desk", Price: decimal.NewFromInt(1), Quantity: -1}, "quantity"},
		{"negative price", Record{ID: 1, Name: "Desk", Price: decimal.RequireFromString("-0.01"), Quantity: 1}, "price"},
		{"negative price below float range", Record{ID: 1, Name: "Desk", Price: decimal.RequireFromString("-1e-400"), Quantity: 1}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DefaultPolicy(), nil)
			err := s.Add(tt.rec)
			require.Error(t, err)

			var ie *Error
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, ErrCodeInvalid, ie.Code)
			assert.Contains(t, ie.Details, tt.field)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestStore_AddAcceptsTinyPositivePrice(t *testing.T) {
	s := NewStore(DefaultPolicy(), nil)
	price := decimal.RequireFromString("1e-400")
	require.NoError(t, s.Add(Record{ID: 1, Name: "Stool", Price: price, Quantity: 1}))

	r, err := s.Find(1)
	require.NoError(t, err)
	assert.True(t, r.Price.Equal(price))
}

func TestStore_AddNormalizesName(t *testing.T) {
	s := NewStore(DefaultPolicy(), nil)
	require.NoError(t, s.Add(mustRecord(t, 1, "  Cafe\u0301 Table ", 1, "10")))

	r, err := s.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9 Table", r.Name)
}

func TestStore_UpdateOverwritesProvidedFields(t *testing.T) {
	s := seeded(t, DefaultPolicy())

	price := decimal.RequireFromString("449.00")
	n, err := s.Update(1, Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []string{"1,Sofa,5,449", "2,Chair,10,89.5"}, rows(s.List()))
}

func TestStore_UpdateAppliesToEveryDuplicate(t *testing.T) {
	s := seeded(t, DefaultPolicy())
	require.NoError(t, s.Add(mustRecord(t, 1, "Loveseat", 2, "299")))

	qty := 0
	n, err := s.Update(1, Patch{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"1,Sofa,0,499.99", "2,Chair,10,89.5", "1,Loveseat,0,299"}, rows(s.List()))
}

func TestStore_UpdateRejectsInvalidPatch(t *testing.T) {
	s := seeded(t, DefaultPolicy())

	qty := -4
	_, err := s.Update(2, Patch{Quantity: &qty})
	assert.True(t, IsInvalid(err))

	empty := ""
	_, err = s.Update(2, Patch{Name: &empty})
	assert.True(t, IsInvalid(err))

	price := decimal.RequireFromString("-1e-400")
	_, err = s.Update(2, Patch{Price: &price})
	assert.True(t, IsInvalid(err))

	assert.Equal(t, []string{"1,Sofa,5,499.99", "2,Chair,10,89.5"}, rows(s.List()))
}

func TestStore_RemoveDeletesAllMatches(t *testing.T) {
	s := seeded(t, DefaultPolicy())
	require.NoError(t, s.Add(mustRecord(t, 1, "Loveseat", 2, "299")))

	n, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"2,Chair,10,89.5"}, rows(s.List()))

	_, err = s.Find(1)
	assert.True(t, IsNotFound(err))
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s := seeded(t, DefaultPolicy())

	s.Clear()
	assert.Empty(t, s.List())
	s.Clear()
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.Len())
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := seeded(t, DefaultPolicy())

	list := s.List()
	list[0].Quantity = 999

	r, _ := s.Find(1)
	assert.Equal(t, 5, r.Quantity)
}

func TestNewStore_CopiesInput(t *testing.T) {
	in := []Record{mustRecord(t, 1, "Sofa", 5, "499.99")}
	s := NewStore(Policy{}, in)
	in[0].Quantity = 0

	r, _ := s.Find(1)
	assert.Equal(t, 5, r.Quantity)
	assert.Equal(t, DefaultPolicy(), s.Policy())
}
