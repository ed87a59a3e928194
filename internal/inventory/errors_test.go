package inventory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: item with id 4 not found (id=4)", notFoundError(4).Error())
	assert.Equal(t,
		"INVALID: invalid item (id=1): name required; quantity must not be negative",
		invalidError(1, map[string]string{"quantity": "must not be negative", "name": "required"}).Error())
}

func TestError_HelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("sell: %w", insufficientStockError(1, 5, 2))

	assert.True(t, IsInsufficientStock(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, ErrCodeInsufficientStock, CodeOf(err))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	p, err = ParsePolicy("reject", "error")
	require.NoError(t, err)
	assert.Equal(t, Policy{Duplicates: DuplicatesReject, Missing: MissingError}, p)

	_, err = ParsePolicy("sometimes", "")
	assert.Error(t, err)
	_, err = ParsePolicy("", "maybe")
	assert.Error(t, err)
}

func TestNewRecord_RejectsBadPrice(t *testing.T) {
	_, err := NewRecord(1, "Desk", 1, "cheap")
	assert.True(t, IsInvalid(err))
}

func TestRecord_EqualComparesPriceNumerically(t *testing.T) {
	a := mustRecord(t, 2, "Chair", 10, "89.50")
	b := mustRecord(t, 2, "Chair", 10, "89.5")
	assert.True(t, a.Equal(b))
	assert.True(t, EqualRecords([]Record{a}, []Record{b}))
	assert.False(t, EqualRecords([]Record{a}, nil))
}
