package auth

import (
	"regexp"
	"strings"
)

var usernameStrip = regexp.MustCompile("[^a-z0-9._-]+")

// UsernameFromEmail derives a username from the local part of an email,
// stripped down to the characters the username rules allow.
func UsernameFromEmail(email string) string {
	local := strings.ToLower(email)
	if i := strings.Index(local, "@"); i > 0 {
		local = local[:i]
	}

	username := usernameStrip.ReplaceAllString(local, "")
	if len(username) > 30 {
		username = username[:30]
	}
	if len(username) < 3 {
		username = "user_" + username
	}
	return username
}
