package cli

import (
	"time"

	"github.com/stride-coach/stride/internal/daemon"
	"github.com/stride-coach/stride/internal/domain"
)

// openDaemon builds a local daemon and returns it with the account email.
// CLI commands talk to the engine in-process; `stride serve` is only needed
// for the app shell.
func openDaemon() (*daemon.Daemon, string, error) {
	d, err := daemon.New()
	if err != nil {
		return nil, "", err
	}
	return d, d.Config.User.Email, nil
}

// today returns the current date key.
func today() string {
	return domain.FormatDate(time.Now())
}
