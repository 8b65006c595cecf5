package utils

import "strings"

// ContainsString reports whether target appears in items, ignoring case.
func ContainsString(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}

// CapitalizeSentence upper-cases the first letter of s.
func CapitalizeSentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
