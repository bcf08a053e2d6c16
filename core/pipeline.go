// Package strata orchestrates a bare-metal installation: disk
// preparation, base-system bootstrap, operator configuration staged under
// the mounted target, and the chroot-phase identity changes. Stages run
// strictly in order; the first failure aborts the whole run.
package strata

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/heliumos/strata/core/disk"
	"github.com/heliumos/strata/core/input"
	"github.com/heliumos/strata/core/staging"
	"github.com/heliumos/strata/core/system"
	"github.com/heliumos/strata/core/util"
)

// Stage identifies one step of the installation. No stage may execute
// before its predecessor has succeeded.
type Stage int

const (
	StageDiskPrep Stage = iota
	StageBootstrap
	StageFstabGen
	StageHostnameSet
	StageTimezoneSelect
	StageLocaleSelect
	StageCredentialCollect
	StageChrootApply
	StageFinalize
)

var stageNames = map[Stage]string{
	StageDiskPrep:          "disk-prep",
	StageBootstrap:         "bootstrap",
	StageFstabGen:          "fstab-gen",
	StageHostnameSet:       "hostname-set",
	StageTimezoneSelect:    "timezone-select",
	StageLocaleSelect:      "locale-select",
	StageCredentialCollect: "credential-collect",
	StageChrootApply:       "chroot-apply",
	StageFinalize:          "finalize",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// State is the pipeline's lifecycle state. Completed and Aborted are
// terminal.
type State int

const (
	StatePending State = iota
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "pending"
	}
}

// ErrNoDevice marks an empty or unresolvable installation device: the one
// fatal-input condition, reported with exit code 1 before any mutation.
var ErrNoDevice = errors.New("no usable installation device selected")

// StageError reports which stage failed. There is no retry and no
// rollback of destructive steps already applied.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline runs the installation stages in order, fail-fast.
type Pipeline struct {
	Exec        util.Runner
	Prompt      input.Prompter
	Log         *logrus.Logger
	Out         io.Writer
	Preseed     Preseed
	MountPoint  string
	JournalPath string

	state           State
	target          *disk.MountedTarget
	store           *staging.Store
	creds           Credentials
	journal         *Journal
	relocateJournal bool
}

func NewPipeline(exec util.Runner, prompt input.Prompter, log *logrus.Logger, preseed Preseed) *Pipeline {
	mountPoint := preseed.MountPoint
	if mountPoint == "" {
		mountPoint = disk.DefaultMountPoint
	}
	journalPath := preseed.JournalPath
	// Only a defaulted journal follows the target once it is mounted;
	// an explicit path stays where the operator put it.
	relocate := journalPath == ""
	if relocate {
		journalPath = DefaultJournalPath
	}

	return &Pipeline{
		Exec:            exec,
		Prompt:          prompt,
		Log:             log,
		Out:             os.Stdout,
		Preseed:         preseed,
		MountPoint:      mountPoint,
		JournalPath:     journalPath,
		relocateJournal: relocate,
	}
}

// State reports the pipeline's lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes all stages. On the first failure the pipeline moves to
// Aborted and returns a StageError naming the failed stage; no further
// stage runs and the target stays mounted for inspection.
func (p *Pipeline) Run() error {
	journal, err := OpenJournal(p.JournalPath)
	if err != nil {
		p.state = StateAborted
		return err
	}
	p.journal = journal

	stages := []struct {
		stage Stage
		run   func() error
	}{
		{StageDiskPrep, p.diskPrep},
		{StageBootstrap, p.bootstrap},
		{StageFstabGen, p.fstabGen},
		{StageHostnameSet, p.hostnameSet},
		{StageTimezoneSelect, p.timezoneSelect},
		{StageLocaleSelect, p.localeSelect},
		{StageCredentialCollect, p.credentialCollect},
		{StageChrootApply, p.chrootApply},
		{StageFinalize, p.finalize},
	}

	for _, s := range stages {
		log := p.Log.WithField("stage", s.stage.String())
		log.Info("stage starting")
		if err := s.run(); err != nil {
			p.state = StateAborted
			log.WithError(err).Error("stage failed, aborting")
			return &StageError{Stage: s.stage, Err: err}
		}
		log.Info("stage complete")
	}

	p.state = StateCompleted
	return nil
}

func (p *Pipeline) diskPrep() error {
	drives, err := disk.ListDrives(p.Exec)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.Out, "Available drives:")
	for _, d := range drives {
		fmt.Fprintf(p.Out, "  %-12s %8s  %s\n", d.Name, d.Size, d.Model)
	}

	name := p.Preseed.Device
	if name == "" {
		name, err = p.Prompt.Line("Install to drive (e.g. sda): ")
		if err != nil {
			return err
		}
	}
	if name == "" {
		return ErrNoDevice
	}
	drive, ok := disk.FindDrive(drives, name)
	if !ok {
		return fmt.Errorf("%w: %q is not a listed block device", ErrNoDevice, name)
	}

	id, err := p.journal.Begin(StageDiskPrep, drive.Path())
	if err != nil {
		return err
	}
	target, err := disk.Prepare(p.Exec, drive.Path(), p.MountPoint)
	if err != nil {
		return err
	}
	if err := p.journal.Finish(id, StageDiskPrep); err != nil {
		return err
	}

	p.target = target
	p.store = staging.NewStore(target.MountPoint)

	if p.relocateJournal {
		journalPath := filepath.Join(target.MountPoint, TargetJournalPath)
		if err := p.journal.Relocate(journalPath); err != nil {
			return err
		}
		p.JournalPath = journalPath
	}
	return nil
}

func (p *Pipeline) bootstrap() error {
	id, err := p.journal.Begin(StageBootstrap, p.target.MountPoint)
	if err != nil {
		return err
	}
	if err := system.Bootstrap(p.Exec, p.target.MountPoint, p.Preseed.BootstrapPackages); err != nil {
		return err
	}
	return p.journal.Finish(id, StageBootstrap)
}

func (p *Pipeline) fstabGen() error {
	return system.GenFstab(p.Exec, p.target.MountPoint)
}

func (p *Pipeline) hostnameSet() error {
	hostname, err := p.collector().CollectHostname(p.Preseed.Hostname)
	if err != nil {
		return err
	}
	p.Log.WithField("hostname", hostname).Info("hostname staged")
	return nil
}

func (p *Pipeline) timezoneSelect() error {
	tz, err := p.collector().CollectTimezone(p.Preseed.Timezone)
	if err != nil {
		return err
	}
	p.Log.WithField("timezone", tz).Info("timezone staged")
	return nil
}

func (p *Pipeline) localeSelect() error {
	tag, err := p.collector().CollectLocale(p.Preseed.Locale)
	if err != nil {
		return err
	}
	p.Log.WithField("locale", tag).Info("locale enabled")
	return nil
}

func (p *Pipeline) credentialCollect() error {
	collector := &CredentialCollector{Prompt: p.Prompt, Out: p.Out}
	creds, err := collector.Collect(p.Preseed.UserName)
	if err != nil {
		return err
	}
	p.creds = creds
	return nil
}

// chrootApply performs the system-identity mutations inside the mounted
// target, consuming the staged artifacts. Order matters: the timezone
// artifact is deleted only after the zone is linked, and the bootloader
// goes in last.
func (p *Pipeline) chrootApply() error {
	root := p.target.MountPoint

	id, err := p.journal.Begin(StageChrootApply, root)
	if err != nil {
		return err
	}

	tz, err := p.store.Get("timezone")
	if err != nil {
		return err
	}
	if err := system.SetTimezone(p.Exec, root, strings.TrimSpace(tz)); err != nil {
		return err
	}
	if err := p.store.Delete("timezone"); err != nil {
		return err
	}

	if err := system.GenerateLocales(p.Exec, root); err != nil {
		return err
	}

	if err := system.SetPassword(p.Exec, root, "root", p.creds.RootSecret); err != nil {
		return err
	}

	if err := system.AddUser(p.Exec, root, p.creds.UserName, []string{"wheel", "users"}); err != nil {
		return err
	}
	if err := system.SetPassword(p.Exec, root, p.creds.UserName, p.creds.UserSecret); err != nil {
		return err
	}

	if err := system.InstallGrub(p.Exec, root, p.target.DevicePath); err != nil {
		return err
	}
	if err := system.GrubMkconfig(p.Exec, root, "/boot/grub/grub.cfg"); err != nil {
		return err
	}

	return p.journal.Finish(id, StageChrootApply)
}

func (p *Pipeline) finalize() error {
	if err := p.target.Unmount(p.Exec); err != nil {
		return err
	}
	return p.Exec.Run("reboot")
}

func (p *Pipeline) collector() *ConfigCollector {
	return &ConfigCollector{
		Prompt:     p.Prompt,
		Selector:   &input.Selector{Prompt: p.Prompt, Out: p.Out},
		Store:      p.store,
		TargetRoot: p.target.MountPoint,
		Out:        p.Out,
	}
}
