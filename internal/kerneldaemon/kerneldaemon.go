// Package kerneldaemon implements the control loop that polls the
// kernel's entropy estimate via procfs and tops it up with
// fallback-generated entropy through the RNDADDENTROPY ioctl. It is
// the long-running counterpart to the one-shot generate command.
package kerneldaemon

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"mixrand/internal/cpurng"
	"mixrand/internal/fallback"
	"mixrand/internal/health"
	"mixrand/internal/lifecycle"
	"mixrand/internal/logging"
	"mixrand/internal/merr"
	"mixrand/internal/security"
)

// rndAddEntropy is the ioctl number for RNDADDENTROPY: _IOW('R', 0x03, int[2]).
const rndAddEntropy = 0x40085203

// Args configures one run of the daemon loop.
type Args struct {
	Threshold   uint32        // inject when entropy_avail falls below this many bits
	Interval    time.Duration // poll period between checks
	BatchSize   int           // bytes generated and injected per top-up
	CreditRatio uint32        // bits of entropy credited per injected byte

	// ConfigPath and Reload enable config hot-reload: when both are
	// set, a change to the file at ConfigPath triggers Reload, and its
	// result replaces the CPU-RNG parameters and fallback mix size the
	// running loop uses on its next iteration. Either left zero
	// disables hot-reload entirely.
	ConfigPath string
	Reload     func() (cpurng.Params, int, error)

	// MetricsAddr, when non-empty, serves Prometheus metrics on
	// /metrics and liveness/readiness/health probes on /livez,
	// /readyz and /healthz at this address.
	MetricsAddr string

	// Version is recorded in crash reports written by the daemon's
	// crash handler.
	Version string

	// DropToUID and DropToGID, when DropToUID is greater than zero,
	// are applied with setuid/setgid right after /dev/random is
	// opened for writing: the daemon only needs root to obtain that
	// file descriptor, not to hold it open or run the poll loop.
	DropToUID int
	DropToGID int
}

// Validate checks the arguments the reference CLI validates before
// starting the loop.
func (a Args) Validate() error {
	if a.BatchSize <= 0 {
		return merr.InvalidArgs("batch-size must be greater than 0")
	}
	return nil
}

// Run executes the poll-and-inject loop until ctrl reports a
// shutdown. It requires /dev/random to be open for writing, which in
// turn requires root.
func Run(args Args, cpuParams cpurng.Params, fallbackMixBytes int, ctrl *lifecycle.Controller, logger *logging.Logger) error {
	if err := args.Validate(); err != nil {
		return err
	}

	crashHandler := logging.NewCrashHandler(&logging.CrashHandlerConfig{
		Component: "mixrand-daemon",
		Version:   args.Version,
	})
	if err := crashHandler.CleanupOldCrashReports(30 * 24 * time.Hour); err != nil {
		logf(logger, slog.LevelWarn, "failed to clean up old crash reports: %s", err)
	}

	if err := security.SecureEnvironment(); err != nil {
		logf(logger, slog.LevelWarn, "failed to harden process environment: %s", err)
	}
	if err := security.ApplyResourceLimits(security.DefaultResourceLimits()); err != nil {
		logf(logger, slog.LevelWarn, "failed to apply resource limits: %s", err)
	}
	if err := security.DisableCoreDumps(); err != nil {
		logf(logger, slog.LevelWarn, "failed to disable core dumps: %s", err)
	} else if security.CoreDumpsEnabled() {
		logf(logger, slog.LevelWarn, "core dumps still enabled after hardening (umask=%04o)", security.CurrentUmask())
	}
	if security.WarnIfRoot() {
		logf(logger, slog.LevelInfo, "running as root, as required to write /dev/random")
	}

	devRandom, err := validatePermissions()
	if err != nil {
		return err
	}
	defer devRandom.Close()

	if args.DropToUID > 0 {
		if err := security.DropPrivileges(args.DropToUID, args.DropToGID); err != nil {
			logf(logger, slog.LevelWarn, "failed to drop privileges to uid %d: %s", args.DropToUID, err)
		} else {
			logf(logger, slog.LevelInfo, "dropped privileges to uid=%d gid=%d", args.DropToUID, args.DropToGID)
		}
	}

	logf(logger, slog.LevelInfo, "started: threshold=%dbits interval=%s batch=%dB credit=%dbits/byte",
		args.Threshold, args.Interval, args.BatchSize, args.CreditRatio)

	done := make(chan struct{})
	defer close(done)
	cw := newConfigWatcher(cpuParams, fallbackMixBytes, args.Reload, logger)
	go func() {
		defer crashHandler.RecoverGoroutine()
		cw.watch(args.ConfigPath, done)
	}()

	obs := newObservability()
	obs.serve(args.MetricsAddr, logger)
	defer obs.shutdown()
	obs.checker.RegisterFunc("dev-random", true, health.FileExistsCheck("/dev/random"))
	obs.checker.RegisterFunc("disk-space", false, health.DiskSpaceCheck("/", 64<<20))
	obs.checker.RegisterFunc("memory", false, health.MemoryCheck(512<<20))
	obs.checker.SetReady(true)

	for !ctrl.ShuttingDown() {
		reqID := logger.NewRequestID()
		ctx := logging.ContextWithRequestID(context.Background(), reqID)
		iterLogger := logger.WithContext(ctx)

		crashHandler.RecoverWithContext(map[string]interface{}{"request_id": reqID, "op": "poll-and-inject"}, func() {
			liveCPU, liveFallbackMixBytes := cw.snapshot()
			obs.daemon.SetUptime(obs.start)

			avail, err := readEntropyAvail()
			if err != nil {
				logf(iterLogger, slog.LevelError, "failed to read entropy_avail: %s", err)
				return
			}
			obs.daemon.RecordPoll(avail)
			if avail >= args.Threshold {
				logf(iterLogger, slog.LevelDebug, "entropy OK: %dbits (threshold %d)", avail, args.Threshold)
				return
			}

			timer := obs.daemon.StartGenerateTimer()
			data, err := fallback.Generate(args.BatchSize, liveFallbackMixBytes, liveCPU)
			timer.Stop()
			if err != nil {
				obs.daemon.RecordGenerateFailure()
				logf(iterLogger, slog.LevelError, "entropy generation failed: %s", err)
				return
			}

			creditBits := uint32(args.BatchSize) * args.CreditRatio
			if err := injectEntropy(devRandom, data, creditBits); err != nil {
				obs.daemon.RecordInjectFailure()
				logf(iterLogger, slog.LevelError, "ioctl failed: %s", err)
				return
			}
			obs.daemon.RecordInjection(args.BatchSize)
			logf(iterLogger, slog.LevelInfo, "injected %dB (%dbits credit), entropy was %dbits",
				args.BatchSize, creditBits, avail)
		})

		ctrl.Sleep(args.Interval)
	}

	logf(logger, slog.LevelInfo, "shutting down")
	return nil
}

func validatePermissions() (*os.File, error) {
	f, err := os.OpenFile("/dev/random", os.O_WRONLY, 0)
	if err != nil {
		return nil, merr.IOf("cannot open /dev/random for writing: %s (are you root?)", err)
	}
	return f, nil
}

func readEntropyAvail() (uint32, error) {
	data, err := os.ReadFile("/proc/sys/kernel/random/entropy_avail")
	if err != nil {
		return 0, merr.IO(err)
	}
	var n uint32
	if _, err := fmt.Sscanf(string(data), "%d", &n); err != nil {
		return 0, merr.NoEntropy("failed to parse entropy_avail: %s", err)
	}
	return n, nil
}

// buildRandPoolInfo packs a struct rand_pool_info { int entropy_count;
// int buf_size; __u32 buf[]; } as a raw byte buffer, padding buf to a
// 4-byte boundary as the kernel requires.
func buildRandPoolInfo(data []byte, entropyBits uint32) []byte {
	bufSize := len(data)
	paddedLen := (bufSize + 3) &^ 3
	total := 4 + 4 + paddedLen
	buf := make([]byte, total)
	binary.NativeEndian.PutUint32(buf[0:4], entropyBits)
	binary.NativeEndian.PutUint32(buf[4:8], uint32(bufSize))
	copy(buf[8:8+bufSize], data)
	return buf
}

func injectEntropy(devRandom *os.File, data []byte, entropyBits uint32) error {
	buf := buildRandPoolInfo(data, entropyBits)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, devRandom.Fd(), rndAddEntropy, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return merr.IO(errno)
	}
	return nil
}

func logf(logger *logging.Logger, level slog.Level, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}
