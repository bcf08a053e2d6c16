// Package disk prepares the installation target: device discovery,
// partitioning, formatting and mounting. Everything here is destructive
// and goes through the injected Runner so callers can inspect results.
package disk

import (
	"fmt"
	"strings"

	"github.com/heliumos/strata/core/util"
)

// Drive is one candidate block device, as reported by lsblk.
type Drive struct {
	Name, Size, Model string
}

func (d Drive) Path() string {
	return "/dev/" + d.Name
}

// ListDrives enumerates whole block devices for operator inspection.
func ListDrives(r util.Runner) ([]Drive, error) {
	listCmd := "lsblk -d -n -o NAME,SIZE,MODEL"
	output, err := r.Output(listCmd)
	if err != nil {
		return nil, fmt.Errorf("failed to list block devices: %s", err)
	}

	drives := []Drive{}
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		drive := Drive{Name: fields[0]}
		if len(fields) > 1 {
			drive.Size = fields[1]
		}
		if len(fields) > 2 {
			drive.Model = strings.Join(fields[2:], " ")
		}
		drives = append(drives, drive)
	}

	return drives, nil
}

// FindDrive resolves a device name against the listed drives.
func FindDrive(drives []Drive, name string) (Drive, bool) {
	for _, d := range drives {
		if d.Name == name {
			return d, true
		}
	}
	return Drive{}, false
}
