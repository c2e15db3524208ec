package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func formatToString(t *testing.T, data []byte, format Format) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, formatOutput(data, format, &buf))
	return buf.String()
}

func TestHex(t *testing.T) {
	require.Equal(t, "deadbeef\n", formatToString(t, []byte{0xde, 0xad, 0xbe, 0xef}, Hex))
}

func TestHexUpper(t *testing.T) {
	require.Equal(t, "DEADBEEF\n", formatToString(t, []byte{0xde, 0xad, 0xbe, 0xef}, HexUpper))
}

func TestRaw(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	var buf bytes.Buffer
	require.NoError(t, formatOutput(data, Raw, &buf))
	require.Equal(t, data, buf.Bytes())
}

func TestBase64(t *testing.T) {
	require.Equal(t, "AAEC\n", formatToString(t, []byte{0x00, 0x01, 0x02}, Base64))
}

func TestBase64URLHasNoPlusOrSlash(t *testing.T) {
	out := formatToString(t, []byte{0xfb, 0xff, 0xfe}, Base64URL)
	require.NotContains(t, out, "+")
	require.NotContains(t, out, "/")
	require.NotEmpty(t, out)
}

func TestOctal(t *testing.T) {
	require.Equal(t, "377 001\n", formatToString(t, []byte{0o377, 0o001}, Octal))
}

func TestBinary(t *testing.T) {
	require.Equal(t, "10101010 00001111\n", formatToString(t, []byte{0b10101010, 0b00001111}, Binary))
}

func TestText(t *testing.T) {
	// 0 -> 33 '!', 93 -> 126 '~', 94 -> 33 '!'
	require.Equal(t, "!~!\n", formatToString(t, []byte{0, 93, 94}, Text))
}

func TestUuencode(t *testing.T) {
	out := formatToString(t, []byte{0x43, 0x61, 0x74}, Uuencode)
	require.True(t, len(out) > 0 && out[:15] == "begin 644 data\n")
	require.Equal(t, "`\nend\n", out[len(out)-6:])
}

func TestParseFormatKnown(t *testing.T) {
	f, err := ParseFormat("base64url")
	require.NoError(t, err)
	require.Equal(t, Base64URL, f)
}

func TestParseFormatUnknown(t *testing.T) {
	_, err := ParseFormat("nonsense")
	require.Error(t, err)
}
