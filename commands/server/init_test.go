package server

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

// setupViper creates a home directory to run inside and points the
// configuration at it.
func setupViper(t *testing.T) func() {
	t.Helper()
	rootDir, err := os.MkdirTemp("", "escrowd-cmd")
	require.NoError(t, err)
	viper.Set(FlagHome, rootDir)
	return func() {
		viper.Reset()
		os.RemoveAll(rootDir)
	}
}

func genOptions(args []string) (json.RawMessage, error) {
	value := "secret"
	if len(args) > 0 {
		value = args[0]
	}
	return json.Marshal(map[string]string{"dummy": value})
}

func readGenesis(t *testing.T) genesisDoc {
	t.Helper()
	raw, err := os.ReadFile(GenesisFile())
	require.NoError(t, err)
	var doc genesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestInitCreatesGenesis(t *testing.T) {
	defer setupViper(t)()

	cmd := InitCmd(genOptions, log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, nil))

	doc := readGenesis(t)
	var chainID string
	require.NoError(t, json.Unmarshal(doc["chain_id"], &chainID))
	assert.True(t, ledger.IsValidChainID(chainID), chainID)
	assert.JSONEq(t, `{"dummy": "secret"}`, string(doc[appStateKey]))
}

func TestInitKeepsTendermintGenesis(t *testing.T) {
	defer setupViper(t)()

	genFile := GenesisFile()
	require.NoError(t, os.MkdirAll(filepath.Dir(genFile), 0755))
	original := `{
		"chain_id": "test-chain-LgVOZ0",
		"validators": [{"power": "10", "name": ""}],
		"app_state": {"dummy": "old"}
	}`
	require.NoError(t, os.WriteFile(genFile, []byte(original), 0600))

	cmd := InitCmd(genOptions, log.NewNopLogger())
	require.NoError(t, cmd.RunE(cmd, []string{"new"}))

	doc := readGenesis(t)
	assert.JSONEq(t, `"test-chain-LgVOZ0"`, string(doc["chain_id"]))
	assert.NotEmpty(t, doc["validators"])
	assert.JSONEq(t, `{"dummy": "new"}`, string(doc[appStateKey]))
}

func TestInitBrokenGenesis(t *testing.T) {
	defer setupViper(t)()

	genFile := GenesisFile()
	require.NoError(t, os.MkdirAll(filepath.Dir(genFile), 0755))
	require.NoError(t, os.WriteFile(genFile, []byte("not json"), 0600))

	cmd := InitCmd(genOptions, log.NewNopLogger())
	err := cmd.RunE(cmd, nil)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestNewLogger(t *testing.T) {
	defer setupViper(t)()

	viper.Set(FlagLogLevel, "debug")
	_, err := NewLogger("test")
	assert.NoError(t, err)

	viper.Set(FlagLogLevel, "loud")
	_, err = NewLogger("test")
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
