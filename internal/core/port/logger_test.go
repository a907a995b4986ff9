package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsMerge(t *testing.T) {
	base := Fields{"service": "listing-service", "trace_id": "a"}
	extra := Fields{"trace_id": "b", "listing_id": "7"}

	merged := base.Merge(extra)

	assert.Equal(t, Fields{"service": "listing-service", "trace_id": "b", "listing_id": "7"}, merged)
	assert.Equal(t, "a", base["trace_id"])
	assert.Len(t, extra, 2)
}

func TestFieldsMergeNil(t *testing.T) {
	var base Fields
	merged := base.Merge(nil)

	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
