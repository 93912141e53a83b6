package pomodoro

import (
	"os"
	"os/exec"
	"syscall"
)

// bindToParent puts the inhibitor in its own process group and has the
// kernel kill it if zen dies without releasing the lock.
func bindToParent(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pdeathsig: syscall.SIGTERM}
}

// killInhibitor stops the inhibitor and anything it spawned, such as the
// "sleep infinity" held by systemd-inhibit.
func killInhibitor(p *os.Process) error {
	if err := syscall.Kill(-p.Pid, syscall.SIGKILL); err == nil {
		return nil
	}
	return p.Kill()
}
