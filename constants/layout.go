package constants

import (
	"strings"
)

// Layout identifies a known vendor invoice template.
type Layout string

const (
	Amazon   Layout = "Amazon"
	Flipkart Layout = "Flipkart"
	Unknown  Layout = "Unknown"
)

var knownLayouts = []Layout{
	Amazon,
	Flipkart,
}

func AsStringSlice() []string {
	result := make([]string, len(knownLayouts))
	for i, l := range knownLayouts {
		result[i] = string(l)
	}
	return result
}

// ParseLayout maps a config value onto a known layout, ignoring case.
func ParseLayout(input string) (Layout, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Unknown, false
	}
	for _, l := range knownLayouts {
		if normalized == strings.ToLower(string(l)) {
			return l, true
		}
	}
	return Unknown, false
}
