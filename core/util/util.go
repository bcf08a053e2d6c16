package util

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner abstracts every external tool invocation so callers can inspect
// the result of each command and tests can substitute a recording fake.
type Runner interface {
	// Run executes a command in a subshell.
	Run(command string) error
	// RunWithStdin executes a command in a subshell with the given input
	// on stdin. Used for handing secrets to tools without putting them
	// on a command line.
	RunWithStdin(command, stdin string) error
	// Output executes a command in a subshell and returns its trimmed output.
	Output(command string) (string, error)
	// RunInChroot executes a command in a subshell chrooted into root.
	RunInChroot(root, command string) error
	// RunInChrootWithStdin is RunInChroot with input on stdin.
	RunInChrootWithStdin(root, command, stdin string) error
}

// ShellRunner runs commands through sh -c on the live system.
type ShellRunner struct{}

func (ShellRunner) Run(command string) error {
	return runCmd(exec.Command("sh", "-c", command))
}

func (ShellRunner) RunWithStdin(command, stdin string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = strings.NewReader(stdin)
	return runCmd(cmd)
}

func (ShellRunner) Output(command string) (string, error) {
	cmd := exec.Command("sh", "-c", command)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return strings.TrimSpace(string(out)), errors.New(string(exitErr.Stderr))
		}
		return strings.TrimSpace(string(out)), err
	}

	return strings.TrimSpace(string(out)), nil
}

func (ShellRunner) RunInChroot(root, command string) error {
	return runCmd(exec.Command("chroot", root, "sh", "-c", command))
}

func (ShellRunner) RunInChrootWithStdin(root, command, stdin string) error {
	cmd := exec.Command("chroot", root, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(stdin)
	return runCmd(cmd)
}

func runCmd(cmd *exec.Cmd) error {
	stderr := new(bytes.Buffer)
	cmd.Stdout = os.Stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	return nil
}

// PartitionPath derives the path of the numbered partition on a device,
// accounting for devices whose name ends in a digit (e.g. /dev/nvme0n1,
// whose first partition is /dev/nvme0n1p1).
func PartitionPath(devicePath string, number int) string {
	last := devicePath[len(devicePath)-1]
	if last >= '0' && last <= '9' {
		return fmt.Sprintf("%sp%d", devicePath, number)
	}
	return fmt.Sprintf("%s%d", devicePath, number)
}
