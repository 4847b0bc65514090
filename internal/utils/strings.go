package utils

import (
  "regexp"
)

var usernameEmailRe = regexp.MustCompile(`(.*)@.*`)

// SanitizeUsername masks the domain of email-style usernames before they
// are shown on public pages. Non-email usernames pass through unchanged.
func SanitizeUsername(username string) string {
  return usernameEmailRe.ReplaceAllString(username, "$1@*")
}
