package sources

import "os"

// ReadInterrupts returns the raw contents of /proc/interrupts, or nil
// if the file cannot be read. Its byte-for-byte content (counter
// values that shift between reads under load) is an entropy input,
// not something the fallback compositor parses.
func ReadInterrupts() []byte {
	return readBestEffort("/proc/interrupts")
}

// ReadStat returns the raw contents of /proc/stat, or nil on failure.
func ReadStat() []byte {
	return readBestEffort("/proc/stat")
}

// ReadDiskstats returns the raw contents of /proc/diskstats, or nil on
// failure (e.g. a system with no block devices).
func ReadDiskstats() []byte {
	return readBestEffort("/proc/diskstats")
}

func readBestEffort(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
