//go:build !unix

package logging

import (
	"fmt"
	"io"
)

// newSyslogWriter reports an error: syslog is a Unix daemon facility
// with no equivalent on this platform.
func newSyslogWriter(component string) (io.Writer, error) {
	return nil, fmt.Errorf("syslog output is not supported on this platform")
}
