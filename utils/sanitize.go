// utils/sanitize.go
package utils

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var scriptRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)

// SanitizeInput sanitizes free text before it is stored
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)

	// Drop script blocks before escaping, otherwise the tags no longer match
	input = scriptRegex.ReplaceAllString(input, "")

	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, input)

	return html.EscapeString(input)
}

// SanitizeURL keeps http(s) links and drops anything else
func SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}

// SanitizeStringArray sanitizes an array of strings, dropping empty entries
func SanitizeStringArray(inputs []string) []string {
	sanitized := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if s := SanitizeInput(input); s != "" {
			sanitized = append(sanitized, s)
		}
	}
	return sanitized
}
