//go:build !windows

// Package process manages the process groups of external renderers
// (Chrome and the office converter) so that a cancelled run leaves no
// orphaned children behind.
package process

import (
	"os/exec"
	"syscall"
)

// SetGroup makes cmd the leader of a new process group. Call before Start.
func SetGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup sends SIGKILL to the process group led by pid.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; callers also kill the leader directly.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
