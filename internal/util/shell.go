package util

import "strings"

// ShellQuote wraps s in single quotes, escaping any existing single quotes,
// so it can be pasted into a shell command as one literal word.
func ShellQuote(s string) string {
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ShellWord returns s unchanged when it is safe as a bare shell word,
// otherwise ShellQuote(s).
func ShellWord(s string) string {
	if s == "" {
		return "''"
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./:=@%+,", r)) {
			return ShellQuote(s)
		}
	}
	return s
}
