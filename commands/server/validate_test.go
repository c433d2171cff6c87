package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummyInit struct{}

func (dummyInit) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var value string
	if err := opts.ReadOptions("dummy", &value); err != nil {
		return err
	}
	if value == "" {
		return errors.Wrap(errors.ErrEmpty, "dummy")
	}
	return kv.Set([]byte("dummy"), []byte(value))
}

func TestValidateGenesis(t *testing.T) {
	dir, err := os.MkdirTemp("", "escrowd-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}
	good := write("good.json", `{"app_state": {"dummy": "x"}}`)
	empty := write("empty.json", `{"app_state": {}}`)
	broken := write("broken.json", `{"app_state": `)

	cases := map[string]struct {
		paths   []string
		wantErr *errors.Error
	}{
		"valid file": {
			paths: []string{good},
		},
		"initializer rejects state": {
			paths:   []string{good, empty},
			wantErr: errors.ErrEmpty,
		},
		"not a json file": {
			paths:   []string{broken},
			wantErr: errors.ErrInvalidInput,
		},
		"missing file": {
			paths:   []string{filepath.Join(dir, "missing.json")},
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := ValidateGenesis(dummyInit{}, tc.paths)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}

	cmd := ValidateCmd(dummyInit{})
	assert.NoError(t, cmd.RunE(cmd, []string{good}))
}
