package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonCompatible(t *testing.T) {
	t.Parallel()
	tests := []struct {
		v        Version
		expected bool
	}{
		{Version{3, 8}, false},
		{Version{3, 9}, true},
		{Version{3, 10}, true},
		{Version{3, 11}, true},
		{Version{3, 12}, true},
		{Version{3, 13}, false},
		{Version{2, 7}, false},
		{Version{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, PythonCompatible(tt.v))
		})
	}
}

func TestKernelSupported(t *testing.T) {
	t.Parallel()
	tests := []struct {
		release  string
		expected bool
	}{
		{"6.5.0-35-generic", true},
		{"6.3", true},
		{"6.8.0-1012-aws", true},
		{"6.2.0-39-generic", false},
		{"5.15.153.1-microsoft-standard-WSL2", false},
		{"10.0.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.release, func(t *testing.T) {
			t.Parallel()
			ok, err := KernelSupported(tt.release)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}

	_, err := KernelSupported("not-a-kernel")
	assert.Error(t, err)
}

func TestCodenameSupported(t *testing.T) {
	t.Parallel()
	assert.True(t, CodenameSupported("jammy"))
	assert.True(t, CodenameSupported("bookworm"))
	assert.False(t, CodenameSupported("focal"))
	assert.False(t, CodenameSupported(""))
}
