package kerneldaemon

import (
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObservabilityServeNoopWhenAddrEmpty(t *testing.T) {
	obs := newObservability()
	obs.serve("", nil)
	require.Nil(t, obs.server)
	obs.shutdown() // must not panic on a nil server
}

func TestObservabilityServeExposesMetricsAndHealthEndpoints(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	obs := newObservability()
	obs.daemon.RecordPoll(42)
	obs.checker.SetReady(true)
	obs.serve(addr, nil)
	defer obs.shutdown()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get("http://" + addr + "/readyz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get("http://" + addr + "/livez")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
