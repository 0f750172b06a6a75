package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, ok := ParseCategory(string(c))
		assert.True(t, ok, c)
		assert.Equal(t, c, got)
	}

	for _, s := range []string{"", "invoice", "Receipt", " Invoice", "W-2"} {
		_, ok := ParseCategory(s)
		assert.False(t, ok, s)
	}
}

func TestCategoriesOrderAndCopy(t *testing.T) {
	got := Categories()
	assert.Equal(t, []Category{
		"Dietary Supplement", "Stationery", "Kitchen Supplies", "Medicine",
		"Driver License", "Invoice", "W2", "Other",
	}, got)

	got[0] = "mutated"
	assert.Equal(t, CategoryDietarySupplement, Categories()[0])
}

func TestSummaryFocus(t *testing.T) {
	assert.Equal(t, "Focus on vendor, amount, date, and items purchased.", CategoryInvoice.SummaryFocus())
	assert.Equal(t, CategoryOther.SummaryFocus(), Category("Receipt").SummaryFocus())

	for _, c := range Categories() {
		assert.NotEmpty(t, c.SummaryFocus(), c)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusOCRError.IsError())
	assert.True(t, StatusError.IsTerminal())
	assert.True(t, StatusComplete.IsTerminal())
	assert.False(t, StatusComplete.IsError())
	assert.False(t, StatusProcessingSummarization.IsTerminal())
}

func TestStorageEventObjectKey(t *testing.T) {
	assert.Equal(t, "abc", StorageEvent{Bucket: "b", Name: "abc"}.ObjectKey())
	assert.Equal(t, "xyz", StorageEvent{Bucket: "b", Name: "abc", Key: "xyz"}.ObjectKey())
}
