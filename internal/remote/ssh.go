package remote

import (
	"fmt"
	"strings"
	"time"

	"github.com/bear/reaper/internal/errors"
	"github.com/bear/reaper/internal/logger"
	"github.com/bear/reaper/pkg/sshutil"
)

const (
	// DefaultSlaveDir is where the buildslave service lives on the hosts.
	DefaultSlaveDir = "/builds/slave"

	// idlePollInterval is how long WaitIdle sleeps between busy checks.
	idlePollInterval = 10 * time.Second

	// idlePollLimit bounds WaitIdle so a wedged job can't hold a worker
	// forever.
	idlePollLimit = 60
)

// SSHConnector opens SSH-backed slave sessions.
type SSHConnector struct {
	User     string
	Password string
	Timeout  time.Duration
	SlaveDir string
	Log      logger.Logger
}

// Connect dials the host and returns a control session.
func (c *SSHConnector) Connect(host string) (Slave, error) {
	client, err := sshutil.Dial(host, sshutil.Options{
		User:     c.User,
		Password: c.Password,
		Timeout:  c.Timeout,
	})
	if err != nil {
		return nil, err
	}

	dir := c.SlaveDir
	if dir == "" {
		dir = DefaultSlaveDir
	}
	log := c.Log
	if log == nil {
		log = logger.Noop()
	}

	return &sshSlave{
		client: client,
		dir:    dir,
		log:    log,
		sleep:  time.Sleep,
	}, nil
}

// sshSlave drives one host over an established SSH connection.
type sshSlave struct {
	client sshutil.SSHClient
	dir    string
	log    logger.Logger
	sleep  func(time.Duration)
}

// NewSlave wraps an existing SSH client as a Slave. Exposed for tests that
// inject a mock client.
func NewSlave(client sshutil.SSHClient, dir string, log logger.Logger) Slave {
	if dir == "" {
		dir = DefaultSlaveDir
	}
	if log == nil {
		log = logger.Noop()
	}
	return &sshSlave{client: client, dir: dir, log: log, sleep: time.Sleep}
}

func (s *sshSlave) Reboot() error {
	s.log.Debug("%s: issuing reboot", s.client.GetHost())

	// The connection drops as the host goes down; only a failure to issue
	// the command at all counts as an error.
	_, stderr, code, err := s.client.Exec("sudo reboot")
	if err != nil {
		return err
	}
	if code != 0 && code != -1 {
		return errors.New(errors.ErrExec,
			fmt.Sprintf("Reboot command exited %d on %s", code, s.client.GetHost()),
			strings.TrimSpace(string(stderr)))
	}
	return nil
}

func (s *sshSlave) WaitIdle() error {
	host := s.client.GetHost()

	// The slave records its process id in twistd.pid; a child of that
	// process means a job is running.
	busyCheck := fmt.Sprintf("pgrep -P \"$(cat %s/twistd.pid)\" > /dev/null", s.dir)

	for i := 0; i < idlePollLimit; i++ {
		_, _, code, err := s.client.Exec(busyCheck)
		if err != nil {
			return err
		}
		if code != 0 {
			// No child processes: idle (or the service isn't running,
			// which the tac/log checks will sort out).
			return nil
		}
		s.log.Debug("%s: mid-job, waiting", host)
		s.sleep(idlePollInterval)
	}

	return errors.New(errors.ErrExec,
		fmt.Sprintf("%s never went idle", host),
		"The running job may be wedged; check the host manually.")
}

func (s *sshSlave) FindTacFiles() ([]string, error) {
	stdout, _, code, err := s.client.Exec(fmt.Sprintf("ls %s", s.dir))
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, errors.New(errors.ErrExec,
			fmt.Sprintf("Couldn't list %s on %s", s.dir, s.client.GetHost()),
			"Check the slave directory exists on the host.")
	}

	var tacs []string
	for _, name := range strings.Fields(string(stdout)) {
		if strings.HasPrefix(name, "buildbot.tac") {
			tacs = append(tacs, name)
		}
	}
	return tacs, nil
}

func (s *sshSlave) TailServiceLog(n int) (string, error) {
	cmd := fmt.Sprintf("tail -n %d %s/twistd.log", n, s.dir)
	stdout, _, code, err := s.client.Exec(cmd)
	if err != nil {
		return "", err
	}
	if code != 0 {
		// Missing log reads as empty, the same signal as a stopped service.
		return "", nil
	}
	return string(stdout), nil
}

func (s *sshSlave) GracefulShutdown() (bool, error) {
	// Buildbot watches for a shutdown stamp and stops after the current
	// job finishes.
	cmd := fmt.Sprintf("touch %s/shutdown.stamp", s.dir)
	_, _, code, err := s.client.Exec(cmd)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}

func (s *sshSlave) Close() error {
	return s.client.Close()
}
