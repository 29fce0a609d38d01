package uniqueid

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKey struct {
	values map[string]string
	closed int
}

func (k *fakeKey) GetStringValue(name string) (string, uint32, error) {
	v, ok := k.values[name]
	if !ok {
		return "", 0, errors.New("The system cannot find the file specified.")
	}
	return v, 1, nil
}

func (k *fakeKey) Close() error {
	k.closed++
	return nil
}

func newTestRegistryProvider(t *testing.T, key *fakeKey, openErr error) *registryProvider {
	t.Helper()
	return &registryProvider{
		openKey: func() (registryKey, error) {
			if openErr != nil {
				return nil, openErr
			}
			return key, nil
		},
		log: testr.New(t),
	}
}

func TestRegistryProvider_ReadsMachineGuid(t *testing.T) {
	key := &fakeKey{values: map[string]string{"MachineGuid": "8c1d6e1b-5b4f-4a32-9c5e-2f0c3e7a9d11"}}
	p := newTestRegistryProvider(t, key, nil)

	id, err := p.ID()
	require.NoError(t, err)
	assert.Equal(t, "8c1d6e1b-5b4f-4a32-9c5e-2f0c3e7a9d11", id)
	assert.Equal(t, 1, key.closed)
}

func TestRegistryProvider_MissingValueClosesKey(t *testing.T) {
	key := &fakeKey{values: map[string]string{}}
	p := newTestRegistryProvider(t, key, nil)

	_, err := p.ID()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, key.closed)
}

func TestRegistryProvider_AvailableEvenWhenKeyMissing(t *testing.T) {
	p := newTestRegistryProvider(t, nil, errors.New("access denied"))

	assert.True(t, p.Available())
	_, err := p.ID()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistryProvider_ValueTooLong(t *testing.T) {
	key := &fakeKey{values: map[string]string{"MachineGuid": strings.Repeat("x", registryBufSize)}}
	p := newTestRegistryProvider(t, key, nil)

	_, err := p.ID()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLong))
	assert.Equal(t, 1, key.closed)

	key.values["MachineGuid"] = strings.Repeat("x", registryBufSize-1)
	id, err := p.ID()
	require.NoError(t, err)
	assert.Len(t, id, registryBufSize-1)
}
