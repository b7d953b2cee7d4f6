// Package remote provides the control capability for one build-farm host:
// connecting, inspecting the buildslave service, and driving it through a
// shutdown or reboot. The reboot state machine consumes the Slave interface;
// the SSH implementation lives in ssh.go.
package remote

// Slave is a control session to one build host. All operations act on the
// buildslave service running there.
type Slave interface {
	// Reboot issues a hard reboot. The SSH connection usually drops as a
	// side effect; that is not an error.
	Reboot() error

	// WaitIdle blocks until the host reports it is not mid-job.
	WaitIdle() error

	// FindTacFiles lists the buildbot tac marker files present on the host.
	// Their presence indicates which service configuration is active.
	FindTacFiles() ([]string, error)

	// TailServiceLog returns the last n lines of the service log.
	TailServiceLog(n int) (string, error)

	// GracefulShutdown asks the service to stop cleanly. Returns false if
	// the host refused the request.
	GracefulShutdown() (bool, error)

	// Close releases the control session.
	Close() error
}

// Connector opens control sessions to hosts by name.
type Connector interface {
	Connect(host string) (Slave, error)
}
