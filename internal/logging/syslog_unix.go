//go:build unix

package logging

import (
	"io"
	"log/syslog"
)

// newSyslogWriter opens a connection to the local syslog daemon under
// the daemon facility, tagged with component (falling back to
// "mixrand" if unset).
func newSyslogWriter(component string) (io.Writer, error) {
	tag := component
	if tag == "" {
		tag = "mixrand"
	}
	return syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, tag)
}
