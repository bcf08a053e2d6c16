package strata

import (
	"fmt"
	"io"
	"regexp"

	"github.com/heliumos/strata/core/input"
)

var userNameExpr = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidUserName reports whether name is a legal account name: letters,
// digits and underscores only.
func ValidUserName(name string) bool {
	return userNameExpr.MatchString(name)
}

// Credentials lives in process memory only. It is passed by value into
// the chroot stage and never staged to disk.
type Credentials struct {
	RootSecret string
	UserName   string
	UserSecret string
}

// CredentialCollector prompts for the root secret, a user name and the
// user's secret. Secrets are read without echo.
type CredentialCollector struct {
	Prompt input.Prompter
	Out    io.Writer
}

// Collect gathers all three values. A valid presetUser skips the user
// name prompt.
func (c *CredentialCollector) Collect(presetUser string) (Credentials, error) {
	rootSecret, err := c.Prompt.Secret("Root password: ")
	if err != nil {
		return Credentials{}, err
	}

	username := presetUser
	for !ValidUserName(username) {
		if username != "" {
			fmt.Fprintf(c.Out, "Invalid user name: %q\n", username)
		}
		username, err = c.Prompt.Line("User name: ")
		if err != nil {
			return Credentials{}, err
		}
	}

	userSecret, err := c.Prompt.Secret(fmt.Sprintf("Password for %s: ", username))
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		RootSecret: rootSecret,
		UserName:   username,
		UserSecret: userSecret,
	}, nil
}
