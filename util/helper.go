package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nameCaser = cases.Title(language.English, cases.NoLower)

// NormalizeName collapses whitespace and title-cases a display name.
// Existing capitals are kept so "McDonald" survives.
func NormalizeName(name string) string {
	return nameCaser.String(strings.Join(strings.Fields(name), " "))
}
