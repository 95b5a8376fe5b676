package detect

import (
	"os"
	"regexp"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// firstEmail returns the first email-shaped token in the file at path.
func firstEmail(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	match := emailPattern.Find(data)
	if match == nil {
		return "", false
	}
	return string(match), true
}
