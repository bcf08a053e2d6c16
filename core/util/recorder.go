package util

import "strings"

// Recorder is a Runner for tests. It records every command it is asked to
// execute, along with that invocation's stdin payload, and answers from
// canned outputs and errors keyed by command prefix. Chrooted commands are
// recorded as "chroot <root> <command>".
type Recorder struct {
	Commands []string
	Stdins   []string // parallel to Commands; "" for commands without stdin
	Outputs  map[string]string
	Errors   map[string]error
}

func NewRecorder() *Recorder {
	return &Recorder{
		Outputs: map[string]string{},
		Errors:  map[string]error{},
	}
}

func (r *Recorder) Run(command string) error {
	r.record(command, "")
	return r.errFor(command)
}

func (r *Recorder) RunWithStdin(command, stdin string) error {
	r.record(command, stdin)
	return r.errFor(command)
}

func (r *Recorder) Output(command string) (string, error) {
	r.record(command, "")
	if err := r.errFor(command); err != nil {
		return "", err
	}
	for prefix, out := range r.Outputs {
		if strings.HasPrefix(command, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (r *Recorder) RunInChroot(root, command string) error {
	full := "chroot " + root + " " + command
	r.record(full, "")
	return r.errFor(full)
}

func (r *Recorder) RunInChrootWithStdin(root, command, stdin string) error {
	full := "chroot " + root + " " + command
	r.record(full, stdin)
	return r.errFor(full)
}

// Ran reports whether any recorded command starts with prefix.
func (r *Recorder) Ran(prefix string) bool {
	for _, c := range r.Commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// Inputs returns the stdin payloads of every invocation whose command
// starts with prefix, in execution order.
func (r *Recorder) Inputs(prefix string) []string {
	inputs := []string{}
	for i, c := range r.Commands {
		if strings.HasPrefix(c, prefix) {
			inputs = append(inputs, r.Stdins[i])
		}
	}
	return inputs
}

func (r *Recorder) record(command, stdin string) {
	r.Commands = append(r.Commands, command)
	r.Stdins = append(r.Stdins, stdin)
}

func (r *Recorder) errFor(command string) error {
	for prefix, err := range r.Errors {
		if strings.HasPrefix(command, prefix) {
			return err
		}
	}
	return nil
}
