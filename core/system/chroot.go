package system

import (
	"fmt"
	"strings"

	"github.com/heliumos/strata/core/util"
)

// SetTimezone links the chosen zone as the target's local time source and
// synchronizes the hardware clock to UTC. tz is a Continent/City pair.
func SetTimezone(r util.Runner, targetRoot, tz string) error {
	linkZoneinfoCmd := "ln -sf /usr/share/zoneinfo/%s /etc/localtime"
	err := r.RunInChroot(targetRoot, fmt.Sprintf(linkZoneinfoCmd, tz))
	if err != nil {
		return fmt.Errorf("failed to set timezone: %s", err)
	}

	err = r.RunInChroot(targetRoot, "hwclock --systohc --utc")
	if err != nil {
		return fmt.Errorf("failed to sync hardware clock: %s", err)
	}

	return nil
}

// GenerateLocales regenerates locale data from the target's edited
// locale-generation template.
func GenerateLocales(r util.Runner, targetRoot string) error {
	err := r.RunInChroot(targetRoot, "locale-gen")
	if err != nil {
		return fmt.Errorf("failed to generate locales: %s", err)
	}

	return nil
}

// SetPassword sets an account's password inside the target. The secret is
// handed to chpasswd on stdin so it never appears on a command line.
func SetPassword(r util.Runner, targetRoot, username, secret string) error {
	err := r.RunInChrootWithStdin(targetRoot, "chpasswd", fmt.Sprintf("%s:%s\n", username, secret))
	if err != nil {
		return fmt.Errorf("failed to set password for %s: %s", username, err)
	}

	return nil
}

// AddUser creates a user inside the target with a home directory, a
// default shell and the given supplementary groups.
func AddUser(r util.Runner, targetRoot, username string, groups []string) error {
	useraddCmd := "useradd -m -s /bin/bash -G %s %s"
	err := r.RunInChroot(targetRoot, fmt.Sprintf(useraddCmd, strings.Join(groups, ","), username))
	if err != nil {
		return fmt.Errorf("failed to create user %s: %s", username, err)
	}

	return nil
}
