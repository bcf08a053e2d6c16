package system

import (
	"fmt"
	"path/filepath"

	"github.com/heliumos/strata/core/util"
)

// InstallGrub installs the bootloader to the selected device from inside
// the target. The kernel filesystems are bind-mounted into the target
// first; grub-install needs them to see the device.
func InstallGrub(r util.Runner, targetRoot, diskPath string) error {
	requiredBinds := []string{"/dev", "/dev/pts", "/proc", "/sys", "/run"}
	for _, bind := range requiredBinds {
		targetBind := filepath.Join(targetRoot, bind)
		err := r.Run(fmt.Sprintf("mount --bind %s %s", bind, targetBind))
		if err != nil {
			return fmt.Errorf("failed to mount %s to %s: %s", bind, targetRoot, err)
		}
	}

	grubInstallCmd := "grub-install --target=i386-pc %s"
	err := r.RunInChroot(targetRoot, fmt.Sprintf(grubInstallCmd, diskPath))
	if err != nil {
		return fmt.Errorf("failed to run grub-install: %s", err)
	}

	return nil
}

// GrubMkconfig generates the bootloader's runtime configuration.
func GrubMkconfig(r util.Runner, targetRoot, output string) error {
	grubMkconfigCmd := "grub-mkconfig -o %s"
	err := r.RunInChroot(targetRoot, fmt.Sprintf(grubMkconfigCmd, output))
	if err != nil {
		return fmt.Errorf("failed to run grub-mkconfig: %s", err)
	}

	return nil
}
