package adapter

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter is a registry test double.
type fakeAdapter struct {
	Adapter
	name string
}

func (f *fakeAdapter) Dialect() string { return f.name }

func register(name string) {
	Register(name, func(*slog.Logger) Adapter { return &fakeAdapter{name: name} })
}

func TestNewAdapter(t *testing.T) {
	register("fake-a")
	register("fake-b")

	t.Run("known type", func(t *testing.T) {
		a, err := NewAdapter(Config{Type: "fake-a"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "fake-a", a.Dialect())
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := NewAdapter(Config{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "adapter type not specified")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewAdapter(Config{Type: "mystery"}, nil)
		require.Error(t, err)

		var unknownErr *UnknownAdapterError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "mystery", unknownErr.Type)
		assert.Contains(t, unknownErr.Available, "fake-a")
		assert.Contains(t, err.Error(), `unknown adapter type "mystery"`)
	})
}

func TestListAdapters_Sorted(t *testing.T) {
	register("fake-z")
	register("fake-a")

	names := ListAdapters()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
	assert.True(t, IsRegistered("fake-z"))
	assert.False(t, IsRegistered("never-registered"))
}
