package credentials_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/credentials"
	"github.com/zalando/go-keyring"
)

func TestStoreAndResolve(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, credentials.Store("jane", "s3cret"))

	pwd, err := credentials.Resolve("jane", "")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pwd)

	require.NoError(t, credentials.Store("jane", "rotated"))
	pwd, err = credentials.Resolve("jane", "")
	require.NoError(t, err)
	assert.Equal(t, "rotated", pwd)
}

func TestResolve_EnvWins(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, credentials.Store("jane", "from-keyring"))

	pwd, err := credentials.Resolve("jane", "from-env")
	require.NoError(t, err)
	assert.Equal(t, "from-env", pwd)
}

func TestResolve_Missing(t *testing.T) {
	keyring.MockInit()

	pwd, err := credentials.Resolve("nobody", "")
	require.NoError(t, err)
	assert.Empty(t, pwd)

	pwd, err = credentials.Resolve("", "")
	require.NoError(t, err)
	assert.Empty(t, pwd)
}

func TestResolve_KeyringFailure(t *testing.T) {
	keyring.MockInitWithError(errors.New("locked"))

	_, err := credentials.Resolve("jane", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrKeyringGet)

	err = credentials.Store("jane", "pwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrKeyringSet)
}

func TestStore_RequiresUser(t *testing.T) {
	keyring.MockInit()

	err := credentials.Store("", "pwd")
	require.Error(t, err)
	assert.Equal(t, config.ErrUserRequired, err.Error())
}
