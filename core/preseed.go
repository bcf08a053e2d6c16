package strata

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Preseed supplies answers ahead of time so their prompts are skipped.
// Every field is optional; an empty preseed is a fully interactive run.
type Preseed struct {
	Device            string   `toml:"device"`
	Hostname          string   `toml:"hostname"`
	Timezone          string   `toml:"timezone"`
	Locale            string   `toml:"locale"`
	UserName          string   `toml:"username"`
	MountPoint        string   `toml:"mount_point"`
	JournalPath       string   `toml:"journal_path"`
	LogLevel          string   `toml:"log_level"`
	BootstrapPackages []string `toml:"bootstrap_packages"`
}

// LoadPreseed reads a preseed file. Secrets are deliberately not part of
// the format; they are always prompted for.
func LoadPreseed(path string) (*Preseed, error) {
	var p Preseed
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("failed to load preseed file %s: %s", path, err)
	}
	return &p, nil
}
