package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatible(t *testing.T) {
	tests := []struct {
		client string
		ok     bool
	}{
		{ProtocolVersion, true},
		{"1.0.0", true},
		{"1.0.7", true},
		{"v1.1.0", true},
		{"1.2.0", false},
		{"2.0.0", false},
		{"0.9.0", false},
	}
	for _, tt := range tests {
		t.Run(tt.client, func(t *testing.T) {
			err := Compatible(tt.client)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCompatible_InvalidVersion(t *testing.T) {
	err := Compatible("not-a-version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid protocol version")
}

func TestInfo(t *testing.T) {
	info := Get()
	assert.Equal(t, ProtocolVersion, info.Protocol)
	assert.Contains(t, info.String(), "nodegraph")

	info.CommitHash = "0123456789abcdef"
	assert.Equal(t, "0123456", info.Short())
}
