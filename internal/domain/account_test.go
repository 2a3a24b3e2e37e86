package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryGovernment, ParseCategory("government"))
	assert.Equal(t, CategoryGovernment, ParseCategory("  Government "))
	assert.Equal(t, CategoryIndependent, ParseCategory("independent"))
	assert.Equal(t, CategoryOther, ParseCategory("other"))
	assert.Equal(t, CategoryUnknown, ParseCategory(""))
	assert.Equal(t, CategoryUnknown, ParseCategory("ngo"))
}

func TestCategoryCoerceForPost(t *testing.T) {
	assert.Equal(t, CategoryGovernment, CategoryGovernment.CoerceForPost())
	assert.Equal(t, CategoryIndependent, CategoryIndependent.CoerceForPost())
	assert.Equal(t, CategoryUnknown, CategoryUnknown.CoerceForPost())
	// "other" is valid on accounts but never on posts.
	assert.Equal(t, CategoryUnknown, CategoryOther.CoerceForPost())
	assert.Equal(t, CategoryUnknown, Category("garbage").CoerceForPost())
}
