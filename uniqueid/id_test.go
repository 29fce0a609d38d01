package uniqueid

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	id        string
	err       error
	available bool
}

func (s stubProvider) Available() bool     { return s.available }
func (s stubProvider) ID() (string, error) { return s.id, s.err }

func stubDefaultProvider(t *testing.T, p Provider) {
	t.Helper()
	orig := defaultProvider
	defaultProvider = p
	t.Cleanup(func() { defaultProvider = orig })
}

func TestGet(t *testing.T) {
	stubDefaultProvider(t, stubProvider{id: "abc123", available: true})

	id, ok := Get()
	assert.True(t, ok)
	assert.Equal(t, "abc123", id)
	assert.True(t, Available())
}

func TestGet_Unavailable(t *testing.T) {
	stubDefaultProvider(t, stubProvider{err: ErrNotFound})

	id, ok := Get()
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestProtectedID(t *testing.T) {
	stubDefaultProvider(t, stubProvider{id: "1a1238d601ad430cbea7efb0d1f3d92d"})

	got, err := ProtectedID("ms.azur.appX")
	require.NoError(t, err)
	assert.Equal(t, protect("ms.azur.appX", "1a1238d601ad430cbea7efb0d1f3d92d"), got)
}

func TestProtectedID_PropagatesError(t *testing.T) {
	stubDefaultProvider(t, stubProvider{err: ErrNotFound})

	_, err := ProtectedID("app")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUUID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "linux machine-id", id: "1a1238d601ad430cbea7efb0d1f3d92d", want: "1a1238d6-01ad-430c-bea7-efb0d1f3d92d"},
		{name: "windows guid", id: "8C1D6E1B-5B4F-4A32-9C5E-2F0C3E7A9D11", want: "8c1d6e1b-5b4f-4a32-9c5e-2f0c3e7a9d11"},
		{name: "not a uuid", id: "abc123", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubDefaultProvider(t, stubProvider{id: tt.id})

			got, err := UUID()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, uuid.Nil, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestUnavailableProvider(t *testing.T) {
	p := unavailableProvider{err: ErrDisabled}

	assert.False(t, p.Available())
	_, err := p.ID()
	assert.True(t, errors.Is(err, ErrDisabled))
}
