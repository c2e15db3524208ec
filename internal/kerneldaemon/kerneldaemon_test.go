package kerneldaemon

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsZeroBatchSize(t *testing.T) {
	err := Args{BatchSize: 0}.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "batch-size")
}

func TestValidateAcceptsPositiveBatchSize(t *testing.T) {
	require.NoError(t, Args{BatchSize: 32}.Validate())
}

func TestBuildRandPoolInfoHeader(t *testing.T) {
	data := []byte{1, 2, 3}
	buf := buildRandPoolInfo(data, 24)

	require.Equal(t, uint32(24), binary.NativeEndian.Uint32(buf[0:4]))
	require.Equal(t, uint32(3), binary.NativeEndian.Uint32(buf[4:8]))
	require.Equal(t, data, buf[8:11])
}

func TestBuildRandPoolInfoPadsToFourBytes(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5} // 5 bytes -> pad to 8
	buf := buildRandPoolInfo(data, 0)
	require.Len(t, buf, 8+8)
}

func TestBuildRandPoolInfoExactMultipleNeedsNoPadding(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	buf := buildRandPoolInfo(data, 0)
	require.Len(t, buf, 8+4)
}
