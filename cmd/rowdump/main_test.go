package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		in   string
		want string
	}{
		{
			name: "header",
			args: []string{"-log-level=error"},
			in:   "id,name\n1,ann\n2,\"bob, jr\"\n",
			want: "{\"id\":\"1\",\"name\":\"ann\"}\n{\"id\":\"2\",\"name\":\"bob, jr\"}\n",
		},
		{
			name: "no header",
			args: []string{"-header=false", "-log-level=error"},
			in:   "1,ann\n",
			want: "[\"1\",\"ann\"]\n",
		},
		{
			name: "empty",
			args: []string{"-log-level=error"},
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer

			require.NoError(t, run(tt.args, strings.NewReader(tt.in), &stdout, &stderr))
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestRunFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\nx\n"), 0o600))

	var stdout, stderr bytes.Buffer

	require.NoError(t, run([]string{"-in", path, "-log-format=json", "-log-level=debug"}, nil, &stdout, &stderr))
	assert.Equal(t, "{\"a\":\"x\"}\n", stdout.String())
	assert.Contains(t, stderr.String(), "rows dumped")
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	assert.Error(t, run([]string{"-in", filepath.Join(t.TempDir(), "missing.csv")}, nil, &stdout, &stderr))
	assert.Error(t, run([]string{"-bogus"}, nil, &stdout, &stderr))
	assert.Error(t, run([]string{"-log-level=error"}, strings.NewReader("a,b\n1\n"), &stdout, &stderr))
}
