// Package system wraps the external tools that mutate the installation
// target: base-system bootstrap, fstab generation and the chroot-phase
// identity changes (timezone, locales, accounts, bootloader).
package system

import (
	"fmt"
	"strings"

	"github.com/heliumos/strata/core/util"
)

// DefaultPackages is the base set handed to the bootstrap tool.
var DefaultPackages = []string{"base", "linux", "linux-firmware", "grub"}

// Bootstrap installs the base system onto the mounted target.
func Bootstrap(r util.Runner, targetRoot string, packages []string) error {
	if len(packages) == 0 {
		packages = DefaultPackages
	}

	bootstrapCmd := "pacstrap %s %s"
	err := r.Run(fmt.Sprintf(bootstrapCmd, targetRoot, strings.Join(packages, " ")))
	if err != nil {
		return fmt.Errorf("failed to bootstrap base system: %s", err)
	}

	return nil
}

// GenFstab appends UUID-keyed mount entries for the target's filesystems
// to its fstab.
func GenFstab(r util.Runner, targetRoot string) error {
	fstabCmd := "genfstab -U %s >> %s/etc/fstab"
	err := r.Run(fmt.Sprintf(fstabCmd, targetRoot, targetRoot))
	if err != nil {
		return fmt.Errorf("failed to generate fstab: %s", err)
	}

	return nil
}
