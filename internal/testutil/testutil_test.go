package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedSessionGenerator(t *testing.T) {
	gen := NewFixedSessionGenerator("session-123")
	assert.Equal(t, "session-123", gen.Generate())
	assert.Equal(t, "session-123", gen.Generate())

	assert.Equal(t, "test-session", NewFixedSessionGenerator("").Generate())
}

func TestCatalogRows(t *testing.T) {
	assert.Equal(t, []string{"1,Sofa,5,499.99", "2,Chair,10,89.5"}, Rows(Catalog(t)))
}
