package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rowbinder/diagnostic"
)

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var d diagnostic.Diagnostics
	assert.False(t, d.HasErrors())
	assert.Empty(t, d.String())

	d.AddWarning(diagnostic.CodeNoCodec, "skipped", "pkg.Row", "Blob")
	assert.False(t, d.HasErrors())

	d.AddError(diagnostic.CodeSurrogate, "no equivalent field", "pkg.Target", "Bar", "Baz")
	d.AddErrorf(diagnostic.CodeDuplicate, "pkg.Row", "ID", "order given by %s and %s", "tag", "hints")

	assert.True(t, d.HasErrors())
	assert.Equal(t,
		"[pkg.Target] Bar: [surrogate] no equivalent field (did you mean Baz?); "+
			"[pkg.Row] ID: [duplicate] order given by tag and hints",
		d.String())

	found, ok := d.Find(diagnostic.CodeDuplicate)
	assert.True(t, ok)
	assert.Equal(t, "ID", found.Member)

	_, ok = d.Find(diagnostic.CodeShape)
	assert.False(t, ok)

	var other diagnostic.Diagnostics
	other.AddInfo(diagnostic.CodeShape, "note", "", "")
	d.Merge(other)
	assert.Len(t, d.Infos, 1)
	assert.Equal(t, "[shape] note", d.Infos[0].String())
	assert.Equal(t, "warning", diagnostic.SeverityWarning.String())
}
