//go:build !linux

package pomodoro

import (
	"os"
	"os/exec"
)

func bindToParent(*exec.Cmd) {}

func killInhibitor(p *os.Process) error {
	return p.Kill()
}
