package disk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliumos/strata/core/util"
)

func TestListDrives(t *testing.T) {
	r := util.NewRecorder()
	r.Outputs["lsblk"] = "sda  50G QEMU HARDDISK\nsdb  50G QEMU HARDDISK\nsr0 1024M"

	drives, err := ListDrives(r)
	require.NoError(t, err)
	require.Len(t, drives, 3)
	assert.Equal(t, Drive{Name: "sda", Size: "50G", Model: "QEMU HARDDISK"}, drives[0])
	assert.Equal(t, "/dev/sdb", drives[1].Path())
	assert.Equal(t, Drive{Name: "sr0", Size: "1024M"}, drives[2])
}

func TestFindDrive(t *testing.T) {
	drives := []Drive{{Name: "sda"}, {Name: "sdb"}}

	d, ok := FindDrive(drives, "sdb")
	assert.True(t, ok)
	assert.Equal(t, "sdb", d.Name)

	_, ok = FindDrive(drives, "sdz")
	assert.False(t, ok)
}

func TestPrepare(t *testing.T) {
	r := util.NewRecorder()

	target, err := Prepare(r, "/dev/sdb", "/mnt")
	require.NoError(t, err)
	assert.Equal(t, "/dev/sdb1", target.PartitionPath)
	assert.Equal(t, "/mnt", target.MountPoint)

	assert.Equal(t, []string{
		"parted -s /dev/sdb mklabel msdos",
		"parted -s /dev/sdb mkpart primary ext4 1MiB 100%",
		"mkfs.ext4 -F /dev/sdb1",
		"mount -m /dev/sdb1 /mnt",
	}, r.Commands)
}

func TestPrepareStopsOnFormatFailure(t *testing.T) {
	r := util.NewRecorder()
	r.Errors["mkfs.ext4"] = errors.New("device busy")

	_, err := Prepare(r, "/dev/sdb", "/mnt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device busy")
	assert.False(t, r.Ran("mount"))
}

func TestUnmount(t *testing.T) {
	r := util.NewRecorder()
	target := &MountedTarget{MountPoint: "/mnt"}

	require.NoError(t, target.Unmount(r))
	assert.Equal(t, []string{"umount -R /mnt"}, r.Commands)
}
