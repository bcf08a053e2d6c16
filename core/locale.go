package strata

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultLocale is offered on an empty answer at locale selection.
const DefaultLocale = "en_US.UTF-8 UTF-8"

// Disabled candidates in locale.gen are the locale spec commented out with
// a bare '#'; header comments use '# ' and are not candidates.
var localeCandidateExpr = regexp.MustCompile(`^#([A-Za-z][^\s#]*[ \t]+\S+)[ \t]*$`)

// LocaleCandidates extracts the available-but-disabled locale lines from a
// locale-generation template.
func LocaleCandidates(template string) []string {
	candidates := []string{}
	for _, line := range strings.Split(template, "\n") {
		if m := localeCandidateExpr.FindStringSubmatch(line); m != nil {
			candidates = append(candidates, strings.TrimSpace(m[1]))
		}
	}
	return candidates
}

// EnableLocale uncomments the chosen locale line in the template at path,
// leaving every other line untouched. A backup of the original template is
// kept next to it the first time it is edited. Enabling an already-enabled
// locale is a no-op.
func EnableLocale(path, locale string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read locale template: %s", err)
	}

	lines := strings.Split(string(content), "\n")
	edited := false
	for i, line := range lines {
		if strings.TrimSpace(line) == locale {
			return nil // already enabled
		}
		if m := localeCandidateExpr.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) == locale {
			lines[i] = m[1]
			edited = true
			break
		}
	}
	if !edited {
		return fmt.Errorf("locale %q not found in %s", locale, path)
	}

	backup := path + ".bak"
	if _, err := os.Stat(backup); os.IsNotExist(err) {
		if err := os.WriteFile(backup, content, 0o644); err != nil {
			return fmt.Errorf("failed to back up locale template: %s", err)
		}
	}

	err = os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write locale template: %s", err)
	}

	return nil
}

// LocaleTag returns the language tag of a locale line: the token before
// the first whitespace (e.g. "en_US.UTF-8" from "en_US.UTF-8 UTF-8"). The
// template's two-column format is assumed; see locale.gen(5).
func LocaleTag(locale string) string {
	if fields := strings.Fields(locale); len(fields) > 0 {
		return fields[0]
	}
	return locale
}
