package strata

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heliumos/strata/core/input"
	"github.com/heliumos/strata/core/staging"
)

func TestValidHostname(t *testing.T) {
	for _, name := range []string{"arch-node1", "host1", "a", "many-part-name2"} {
		assert.True(t, ValidHostname(name), name)
	}
	for _, name := range []string{"-bad", "bad-", "has space", "", "double--dash", "under_score"} {
		assert.False(t, ValidHostname(name), name)
	}
}

func TestHostsFile(t *testing.T) {
	assert.Equal(t,
		"127.0.0.1\tlocalhost\n::1\t\tlocalhost\n127.0.1.1\tarchbox.localdomain archbox\n",
		HostsFile("archbox"))
}

const localeTemplate = `# This file lists locales to be generated.
# Uncomment the ones you need.
#cs_CZ.UTF-8 UTF-8
#en_US.UTF-8 UTF-8
#fr_FR.UTF-8 UTF-8
`

func TestLocaleCandidates(t *testing.T) {
	candidates := LocaleCandidates(localeTemplate)
	assert.Equal(t, []string{"cs_CZ.UTF-8 UTF-8", "en_US.UTF-8 UTF-8", "fr_FR.UTF-8 UTF-8"}, candidates)
}

func TestLocaleCandidatesSkipsEnabledLines(t *testing.T) {
	candidates := LocaleCandidates("en_US.UTF-8 UTF-8\n#cs_CZ.UTF-8 UTF-8\n")
	assert.Equal(t, []string{"cs_CZ.UTF-8 UTF-8"}, candidates)
}

func writeLocaleTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locale.gen")
	require.NoError(t, os.WriteFile(path, []byte(localeTemplate), 0o644))
	return path
}

func TestEnableLocale(t *testing.T) {
	path := writeLocaleTemplate(t)

	require.NoError(t, EnableLocale(path, "cs_CZ.UTF-8 UTF-8"))

	edited, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `# This file lists locales to be generated.
# Uncomment the ones you need.
cs_CZ.UTF-8 UTF-8
#en_US.UTF-8 UTF-8
#fr_FR.UTF-8 UTF-8
`, string(edited))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, localeTemplate, string(backup))
}

func TestEnableLocaleIdempotent(t *testing.T) {
	path := writeLocaleTemplate(t)

	require.NoError(t, EnableLocale(path, "en_US.UTF-8 UTF-8"))
	once, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, EnableLocale(path, "en_US.UTF-8 UTF-8"))
	twice, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestEnableLocaleUnknown(t *testing.T) {
	path := writeLocaleTemplate(t)
	assert.Error(t, EnableLocale(path, "xx_XX.UTF-8 UTF-8"))
}

func TestLocaleTag(t *testing.T) {
	assert.Equal(t, "en_US.UTF-8", LocaleTag("en_US.UTF-8 UTF-8"))
	assert.Equal(t, "cs_CZ.UTF-8", LocaleTag("cs_CZ.UTF-8\tUTF-8"))
}

func newTestCollector(t *testing.T, prompt input.Prompter) (*ConfigCollector, string) {
	t.Helper()
	mount := t.TempDir()
	return &ConfigCollector{
		Prompt:     prompt,
		Selector:   &input.Selector{Prompt: prompt, Out: io.Discard},
		Store:      staging.NewStore(mount),
		TargetRoot: mount,
		Out:        &bytes.Buffer{},
	}, mount
}

func TestCollectHostnameRetriesUntilValid(t *testing.T) {
	c, mount := newTestCollector(t, &input.Script{Lines: []string{"bad-", "has space", "archbox"}})

	hostname, err := c.CollectHostname("")
	require.NoError(t, err)
	assert.Equal(t, "archbox", hostname)

	staged, err := os.ReadFile(filepath.Join(mount, "etc", "hostname"))
	require.NoError(t, err)
	assert.Equal(t, "archbox\n", string(staged))

	hosts, err := os.ReadFile(filepath.Join(mount, "etc", "hosts"))
	require.NoError(t, err)
	assert.Contains(t, string(hosts), "127.0.1.1\tarchbox.localdomain archbox")
}

func TestCollectHostnameRejectsInvalidPreset(t *testing.T) {
	c, _ := newTestCollector(t, &input.Script{Lines: []string{"archbox"}})

	hostname, err := c.CollectHostname("-bad")
	require.NoError(t, err)
	assert.Equal(t, "archbox", hostname)
}

func scaffoldZoneinfo(t *testing.T, mount string) {
	t.Helper()
	for _, city := range []string{"Europe/Berlin", "Europe/Prague", "America/Lima"} {
		path := filepath.Join(mount, "usr/share/zoneinfo", city)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	}
	// non-selectable entries
	require.NoError(t, os.MkdirAll(filepath.Join(mount, "usr/share/zoneinfo/posix"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mount, "usr/share/zoneinfo/UTC"), []byte{}, 0o644))
}

func TestCollectTimezone(t *testing.T) {
	// continents sort to [America, Europe]; Europe's cities to [Berlin, Prague]
	c, mount := newTestCollector(t, &input.Script{Lines: []string{"2", "2"}})
	scaffoldZoneinfo(t, mount)

	tz, err := c.CollectTimezone("")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Prague", tz)

	staged, err := c.Store.Get("timezone")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Prague\n", staged)
}

func TestCollectTimezonePreset(t *testing.T) {
	c, mount := newTestCollector(t, &input.Script{})
	scaffoldZoneinfo(t, mount)

	tz, err := c.CollectTimezone("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", tz)

	_, err = c.CollectTimezone("Nowhere/City")
	assert.Error(t, err)
}

func TestCollectLocaleDefault(t *testing.T) {
	c, mount := newTestCollector(t, &input.Script{Lines: []string{""}})
	require.NoError(t, c.Store.Put("locale.gen", localeTemplate))

	tag, err := c.CollectLocale("")
	require.NoError(t, err)
	assert.Equal(t, "en_US.UTF-8", tag)

	conf, err := c.Store.Get("locale.conf")
	require.NoError(t, err)
	assert.Equal(t, "LANG=en_US.UTF-8\n", conf)

	edited, err := os.ReadFile(filepath.Join(mount, "etc", "locale.gen"))
	require.NoError(t, err)
	assert.Contains(t, string(edited), "\nen_US.UTF-8 UTF-8\n")
	assert.Contains(t, string(edited), "#cs_CZ.UTF-8 UTF-8")
}

func TestCollectLocaleAllLinesEnabled(t *testing.T) {
	c, _ := newTestCollector(t, &input.Script{})
	require.NoError(t, c.Store.Put("locale.gen", "cs_CZ.UTF-8 UTF-8\nen_US.UTF-8 UTF-8\n"))

	tag, err := c.CollectLocale("")
	require.NoError(t, err)
	assert.Equal(t, "en_US.UTF-8", tag)

	conf, err := c.Store.Get("locale.conf")
	require.NoError(t, err)
	assert.Equal(t, "LANG=en_US.UTF-8\n", conf)
}

func TestCollectLocaleNumericChoice(t *testing.T) {
	c, _ := newTestCollector(t, &input.Script{Lines: []string{"1"}})
	require.NoError(t, c.Store.Put("locale.gen", localeTemplate))

	tag, err := c.CollectLocale("")
	require.NoError(t, err)
	assert.Equal(t, "cs_CZ.UTF-8", tag)
}
