package common_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rowbinder/internal/common"
)

func TestPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, common.IsEmpty([]int(nil)))
	assert.False(t, common.IsMultiple([]int{1}))
	assert.True(t, common.IsMultiple([]int{1, 2}))

	first, ok := common.First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", first)

	_, ok = common.First([]string{})
	assert.False(t, ok)
}

func TestDuplicates(t *testing.T) {
	t.Parallel()

	names := []string{"id", "Name", "id", "name", "id", "total"}

	assert.Equal(t, []string{"id"}, common.Duplicates(names, func(s string) string { return s }))
	assert.Equal(t, []string{"id", "name"}, common.Duplicates(names, strings.ToLower))
	assert.Empty(t, common.Duplicates([]string{"a", "b"}, strings.ToLower))
}
