package sources

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"mixrand/internal/merr"
)

const haveguedPollTimeout = 2 * time.Second

// ReadHaveged reads count bytes from /dev/random, requiring that the
// haveged daemon is running and the kernel entropy pool already holds
// at least 1024 bits. It opens the device non-blocking and polls with
// a 2-second overall deadline, since /dev/random blocks indefinitely
// when the pool runs dry.
func ReadHaveged(count int) ([]byte, error) {
	if !isHavegedRunning() {
		return nil, merr.NoEntropy("haveged process not found")
	}
	if !hasSufficientEntropy() {
		return nil, merr.NoEntropy("insufficient kernel entropy (< 1024 bits)")
	}

	fd, err := unix.Open("/dev/random", unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, merr.NoEntropy("/dev/random not available: %s", err)
	}
	defer unix.Close(fd)

	buf := make([]byte, count)
	filled := 0
	deadline := time.Now().Add(haveguedPollTimeout)

	for filled < count {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, merr.NoEntropy("timeout waiting for /dev/random")
		}

		pfds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(pfds, int(remaining.Milliseconds()))
		if err != nil || n <= 0 {
			return nil, merr.NoEntropy("poll on /dev/random failed or timed out")
		}

		m, err := unix.Read(fd, buf[filled:])
		if err != nil {
			return nil, merr.IOf("reading /dev/random: %s", err)
		}
		if m == 0 {
			return nil, merr.NoEntropy("/dev/random returned 0 bytes")
		}
		filled += m
	}

	return buf, nil
}

// isHavegedRunning scans /proc/*/comm for a process named "haveged".
func isHavegedRunning() bool {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return false
	}

	for _, entry := range entries {
		name := entry.Name()
		if !isAllDigits(name) {
			continue
		}
		comm, err := os.ReadFile(filepath.Join("/proc", name, "comm"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(comm)) == "haveged" {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasSufficientEntropy() bool {
	data, err := os.ReadFile("/proc/sys/kernel/random/entropy_avail")
	if err != nil {
		return false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		return false
	}
	return n >= 1024
}
