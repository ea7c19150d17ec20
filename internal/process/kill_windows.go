//go:build windows

// Package process manages the process groups of external renderers
// (Chrome and the office converter) so that a cancelled run leaves no
// orphaned children behind.
package process

import (
	"os/exec"
	"strconv"
	"syscall"
)

// SetGroup starts cmd in a new process group. Call before Start.
func SetGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= syscall.CREATE_NEW_PROCESS_GROUP
}

// KillProcessGroup kills pid and its children with taskkill /T.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
