package sources

import (
	"os"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"

	"mixrand/internal/merr"
)

// tpmDevicePaths lists candidate TPM character devices in order of
// preference: the in-kernel resource manager, then the raw device.
var tpmDevicePaths = []string{
	"/dev/tpmrm0",
	"/dev/tpm0",
}

// ReadTPM reads count bytes from a TPM 2.0 device's GetRandom command.
// It probes tpmDevicePaths in order and fails with a NoEntropy error
// if no device is present or the command fails, matching every other
// adapter's "absent is not fatal" contract.
func ReadTPM(count int) ([]byte, error) {
	path, err := findTPMDevice()
	if err != nil {
		return nil, err
	}

	t, err := transport.OpenTPM(path)
	if err != nil {
		return nil, merr.NoEntropy("opening %s: %s", path, err)
	}
	defer t.Close()

	buf := make([]byte, 0, count)
	for len(buf) < count {
		want := count - len(buf)
		if want > 32 {
			want = 32 // TPM2_GetRandom is typically limited per call
		}
		rsp, err := tpm2.GetRandom{BytesRequested: uint16(want)}.Execute(t)
		if err != nil {
			return nil, merr.NoEntropy("TPM2_GetRandom failed: %s", err)
		}
		if len(rsp.RandomBytes.Buffer) == 0 {
			return nil, merr.NoEntropy("TPM2_GetRandom returned no bytes")
		}
		buf = append(buf, rsp.RandomBytes.Buffer...)
	}

	return buf[:count], nil
}

func findTPMDevice() (string, error) {
	for _, path := range tpmDevicePaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", merr.NoEntropy("no TPM device found in %v", tpmDevicePaths)
}
