// Package procutil wraps os/exec process lifecycle management: starting
// a re-exec'd child in its own process group, and tearing it down first
// gracefully (SIGTERM) then forcefully (SIGKILL to the whole group) if it
// doesn't exit in time. This is the Go stand-in for the original's
// fork/exec + waitpid child supervision, recalled from the teacher pack's
// process-runner idiom of wrapping exec.Cmd with explicit Setpgid so a
// single kill reaches every grandchild too.
package procutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// GracefulTimeout is how long Stop waits after SIGTERM before escalating
// to SIGKILL.
const GracefulTimeout = 100 * time.Millisecond

// Child wraps a running subprocess, started in its own process group so
// it can be signaled as a unit.
type Child struct {
	Name string
	cmd  *exec.Cmd
	done chan error
}

// Start re-execs the current binary with the given args (typically
// []string{"component", name}) and environment, placing the child in a
// new process group.
func Start(ctx context.Context, name string, args []string, env []string) (*Child, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("procutil: resolve executable: %w", err)
	}

	cmd := exec.CommandContext(ctx, self, args...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("procutil: start %s: %w", name, err)
	}

	child := &Child{Name: name, cmd: cmd, done: make(chan error, 1)}
	go func() {
		child.done <- cmd.Wait()
	}()
	return child, nil
}

// Pid returns the child's process ID.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Wait blocks until the child exits and returns its exit error, if any.
func (c *Child) Wait() error {
	return <-c.done
}

// Exited reports whether the child has already exited, returning its exit
// error (if any) without blocking.
func (c *Child) Exited() (exited bool, err error) {
	select {
	case err := <-c.done:
		c.done <- err
		return true, err
	default:
		return false, nil
	}
}

// Stop sends SIGTERM to the child's process group, waits up to
// GracefulTimeout for it to exit, then sends SIGKILL to the group if it
// hasn't.
func (c *Child) Stop() error {
	pgid, err := unix.Getpgid(c.cmd.Process.Pid)
	if err != nil {
		pgid = c.cmd.Process.Pid
	}

	_ = unix.Kill(-pgid, unix.SIGTERM)

	select {
	case err := <-c.done:
		c.done <- err
		return nil
	case <-time.After(GracefulTimeout):
	}

	_ = unix.Kill(-pgid, unix.SIGKILL)
	<-c.done
	return nil
}
