package merr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIOWrapsAndClassifies(t *testing.T) {
	err := IO(io.ErrUnexpectedEOF)
	require.Error(t, err)
	require.Equal(t, KindIO, KindOf(err))
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestNoEntropyClassifies(t *testing.T) {
	err := NoEntropy("rdrand: retries exhausted after %d attempts", 10)
	require.Equal(t, KindNoEntropy, KindOf(err))
	require.Contains(t, err.Error(), "entropy error:")
}

func TestInvalidArgsClassifies(t *testing.T) {
	err := InvalidArgs("bad duration %q", "10x")
	require.Equal(t, KindInvalidArgs, KindOf(err))
	require.Contains(t, err.Error(), "invalid arguments:")
}

func TestIONilIsNil(t *testing.T) {
	require.NoError(t, IO(nil))
}

func TestKindOfUnclassifiedDefaultsIO(t *testing.T) {
	require.Equal(t, KindIO, KindOf(errors.New("plain")))
}
