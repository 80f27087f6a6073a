package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
name: flaky-start
on_error: at the top of main
install:
  - name: open-config
main:
  - name: fetch
    fail: connection refused
    recover: cached
  - name: write
    fail: disk full
`))
	require.NoError(t, err)

	assert.Equal(t, "flaky-start", s.Name)
	assert.Equal(t, "at the top of main", s.OnError)
	require.Len(t, s.Install, 1)
	assert.Equal(t, "open-config", s.Install[0].Name)
	require.Len(t, s.Main, 2)
	assert.Equal(t, Step{Name: "fetch", Fail: "connection refused", Recover: "cached"}, s.Main[0])
	assert.Equal(t, "disk full", s.Main[1].Fail)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{
			name:    "missing name",
			yaml:    "main:\n  - name: a\n",
			invalid: true,
		},
		{
			name:    "no main steps",
			yaml:    "name: x\n",
			invalid: true,
		},
		{
			name:    "unnamed step",
			yaml:    "name: x\nmain:\n  - fail: y\n",
			invalid: true,
		},
		{
			name:    "duplicate step across phases",
			yaml:    "name: x\ninstall:\n  - name: a\nmain:\n  - name: a\n",
			invalid: true,
		},
		{
			name:    "fail and panic",
			yaml:    "name: x\nmain:\n  - name: a\n    fail: f\n    panic: p\n",
			invalid: true,
		},
		{
			name: "unknown field",
			yaml: "name: x\nmain:\n  - name: a\n    retry: 3\n",
		},
		{
			name: "not yaml",
			yaml: "name: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NotErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: ok\nmain:\n  - name: a\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", s.Name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
