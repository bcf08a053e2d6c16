package strata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/heliumos/strata/core/input"
	"github.com/heliumos/strata/core/staging"
)

const selectionPageSize = 20

var hostnameExpr = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

// ValidHostname reports whether name is a legal hostname: alphanumeric
// labels, single dashes only between them.
func ValidHostname(name string) bool {
	return hostnameExpr.MatchString(name)
}

// HostsFile derives the canonical hosts file for a hostname.
func HostsFile(hostname string) string {
	return fmt.Sprintf("127.0.0.1\tlocalhost\n::1\t\tlocalhost\n127.0.1.1\t%s.localdomain %s\n", hostname, hostname)
}

// ConfigCollector gathers hostname, timezone and locale from the operator
// and stages each decision under the mounted target for the chroot stage.
type ConfigCollector struct {
	Prompt     input.Prompter
	Selector   *input.Selector
	Store      *staging.Store
	TargetRoot string
	Out        io.Writer
}

// CollectHostname prompts until the hostname is valid (or takes a valid
// preset), then stages the hostname and hosts artifacts.
func (c *ConfigCollector) CollectHostname(preset string) (string, error) {
	hostname := preset
	for !ValidHostname(hostname) {
		if hostname != "" {
			fmt.Fprintf(c.Out, "Invalid hostname: %q\n", hostname)
		}
		var err error
		hostname, err = c.Prompt.Line("Hostname: ")
		if err != nil {
			return "", err
		}
	}

	if err := c.Store.Put("hostname", hostname+"\n"); err != nil {
		return "", err
	}
	if err := c.Store.Put("hosts", HostsFile(hostname)); err != nil {
		return "", err
	}

	return hostname, nil
}

// CollectTimezone picks a continent, then a city under it, and stages the
// pair as the transient timezone artifact. The chroot stage deletes it
// after linking the zone.
func (c *ConfigCollector) CollectTimezone(preset string) (string, error) {
	zoneinfo := filepath.Join(c.TargetRoot, "usr/share/zoneinfo")

	tz := preset
	if tz != "" {
		if _, err := os.Stat(filepath.Join(zoneinfo, tz)); err != nil {
			return "", fmt.Errorf("preset timezone %q not found under %s", tz, zoneinfo)
		}
	} else {
		continents, err := zoneEntries(zoneinfo, true)
		if err != nil {
			return "", err
		}
		continent, err := c.Selector.Select("Timezone continent", continents, selectionPageSize, "")
		if err != nil {
			return "", err
		}

		cities, err := zoneEntries(filepath.Join(zoneinfo, continent), false)
		if err != nil {
			return "", err
		}
		city, err := c.Selector.Select("Timezone city", cities, selectionPageSize, "")
		if err != nil {
			return "", err
		}

		tz = continent + "/" + city
	}

	if err := c.Store.Put("timezone", tz+"\n"); err != nil {
		return "", err
	}

	return tz, nil
}

// CollectLocale enables the chosen locale line in the target's generation
// template and stages the language tag as the active-language artifact.
// An empty answer accepts en_US.UTF-8 UTF-8.
func (c *ConfigCollector) CollectLocale(preset string) (string, error) {
	templatePath := c.Store.Path("locale.gen")

	locale := preset
	if locale == "" {
		template, err := c.Store.Get("locale.gen")
		if err != nil {
			return "", err
		}
		candidates := LocaleCandidates(template)
		if len(candidates) == 0 {
			// Every line already enabled; nothing left to choose.
			locale = DefaultLocale
		} else {
			locale, err = c.Selector.Select("Locale", candidates, selectionPageSize, DefaultLocale)
			if err != nil {
				return "", err
			}
		}
	}

	if err := EnableLocale(templatePath, locale); err != nil {
		return "", err
	}

	tag := LocaleTag(locale)
	if err := c.Store.Put("locale.conf", fmt.Sprintf("LANG=%s\n", tag)); err != nil {
		return "", err
	}

	return tag, nil
}

// zoneEntries lists a zoneinfo directory. At the top level only continent
// directories count; posix/, right/ and the plain-file zones there are not
// selectable.
func zoneEntries(dir string, dirsOnly bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate timezones: %s", err)
	}

	names := []string{}
	for _, e := range entries {
		name := e.Name()
		if name[0] < 'A' || name[0] > 'Z' {
			continue
		}
		if dirsOnly && !e.IsDir() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no timezone entries under %s", dir)
	}
	return names, nil
}
