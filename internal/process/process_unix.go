//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate starts the command in its own process group so that
// KillProcessGroup also reaches helpers pandoc spawns (filters, LaTeX).
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort; exec.Cmd.WaitDelay bounds the wait if this fails.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
