package disk

import (
	"fmt"

	"github.com/heliumos/strata/core/util"
)

// DefaultMountPoint is where the target filesystem is mounted for the
// duration of the installation.
const DefaultMountPoint = "/mnt"

// MountedTarget is the prepared installation target. The pipeline owns at
// most one for its entire run; it is unmounted only at finalization.
type MountedTarget struct {
	DevicePath    string
	PartitionPath string
	MountPoint    string
}

// Prepare wipes the device's partition table, creates a single primary
// ext4 partition spanning the whole device, formats it and mounts it at
// mountPoint. There is no way back once this has started.
func Prepare(r util.Runner, devicePath, mountPoint string) (*MountedTarget, error) {
	labelCmd := "parted -s %s mklabel msdos"
	if err := r.Run(fmt.Sprintf(labelCmd, devicePath)); err != nil {
		return nil, fmt.Errorf("failed to label %s: %s", devicePath, err)
	}

	mkpartCmd := "parted -s %s mkpart primary ext4 1MiB 100%%"
	if err := r.Run(fmt.Sprintf(mkpartCmd, devicePath)); err != nil {
		return nil, fmt.Errorf("failed to partition %s: %s", devicePath, err)
	}

	partition := util.PartitionPath(devicePath, 1)

	makefsCmd := "mkfs.ext4 -F %s"
	if err := r.Run(fmt.Sprintf(makefsCmd, partition)); err != nil {
		return nil, fmt.Errorf("failed to make ext4 filesystem for %s: %s", partition, err)
	}

	mountCmd := "mount -m %s %s"
	if err := r.Run(fmt.Sprintf(mountCmd, partition, mountPoint)); err != nil {
		return nil, fmt.Errorf("failed to mount %s at %s: %s", partition, mountPoint, err)
	}

	return &MountedTarget{
		DevicePath:    devicePath,
		PartitionPath: partition,
		MountPoint:    mountPoint,
	}, nil
}

// Unmount releases the target and everything bind-mounted below it.
func (t *MountedTarget) Unmount(r util.Runner) error {
	umountCmd := "umount -R %s"
	if err := r.Run(fmt.Sprintf(umountCmd, t.MountPoint)); err != nil {
		return fmt.Errorf("failed to unmount %s: %s", t.MountPoint, err)
	}
	return nil
}
