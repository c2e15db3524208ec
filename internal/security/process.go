package security

import "os"

// DropPrivileges attempts to drop root privileges to the given user.
// This is only effective if the process is running as root.
func DropPrivileges(uid, gid int) error {
	if os.Geteuid() != 0 {
		return nil // Already non-root
	}
	return dropPrivilegesUnix(uid, gid)
}

// WarnIfRoot reports whether the process is running as root, for
// callers that want to log a warning before opening /dev/random for
// write (the daemon's root-required precondition).
func WarnIfRoot() bool {
	return os.Geteuid() == 0
}

// SecureEnvironment clears environment variables that could be used to
// hijack the process (LD_PRELOAD and friends) and sets a restrictive
// umask. Intended to be called once at daemon startup, before any
// secret buffers are allocated.
func SecureEnvironment() error {
	sensitiveVars := []string{
		"LD_PRELOAD",
		"LD_LIBRARY_PATH",
		"IFS",
		"CDPATH",
		"ENV",
		"BASH_ENV",
	}
	for _, v := range sensitiveVars {
		os.Unsetenv(v)
	}
	setUmask(0077)
	return nil
}

// ResourceLimits defines process resource limits.
type ResourceLimits struct {
	MaxFileSize  uint64
	MaxMemory    uint64
	MaxCPUTime   uint64
	MaxOpenFiles uint64
	MaxProcesses uint64
	CoreDumpSize uint64
}

// DefaultResourceLimits returns conservative resource limits suitable
// for a long-running daemon that should never need more than a handful
// of open files or much memory.
func DefaultResourceLimits() *ResourceLimits {
	return &ResourceLimits{
		MaxFileSize:  1 << 20, // 1MB: the daemon never writes large files
		MaxMemory:    256 << 20,
		MaxCPUTime:   0, // unbounded: the daemon runs indefinitely
		MaxOpenFiles: 64,
		MaxProcesses: 16,
		CoreDumpSize: 0, // core dumps could expose entropy buffers
	}
}

// ApplyResourceLimits applies the resource limits to the current process.
func ApplyResourceLimits(limits *ResourceLimits) error {
	return applyResourceLimits(limits)
}

// DisableCoreDumps disables core dumps for the current process, so a
// crash never writes unzeroized entropy buffers to disk.
func DisableCoreDumps() error {
	return applyCoreLimits(&ResourceLimits{CoreDumpSize: 0})
}

// CoreDumpsEnabled reports whether the process's core dump limit still
// allows a dump, for callers that want to confirm DisableCoreDumps
// actually took effect.
func CoreDumpsEnabled() bool {
	return areCoreEnabled()
}

// CurrentUmask returns the process's current umask without altering it.
func CurrentUmask() int {
	return getCurrentUmask()
}
