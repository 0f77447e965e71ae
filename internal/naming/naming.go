package naming

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// initialismsMu guards commonInitialisms, which generators read
// concurrently.
var initialismsMu sync.RWMutex

var commonInitialisms = map[string]bool{
	"API":   true,
	"ASCII": true,
	"CPU":   true,
	"CSS":   true,
	"DNS":   true,
	"EOF":   true,
	"GUID":  true,
	"HTML":  true,
	"HTTP":  true,
	"HTTPS": true,
	"ID":    true,
	"IP":    true,
	"JSON":  true,
	"QPS":   true,
	"RAM":   true,
	"RPC":   true,
	"SLA":   true,
	"SQL":   true,
	"SSH":   true,
	"TCP":   true,
	"TLS":   true,
	"TTL":   true,
	"UDP":   true,
	"UI":    true,
	"UID":   true,
	"UUID":  true,
	"URI":   true,
	"URL":   true,
	"UTF8":  true,
	"XML":   true,
}

// SetAdditionalInitialisms adds custom initialisms to the naming rules.
// It is safe to call while other goroutines generate names.
func SetAdditionalInitialisms(initialisms []string) {
	initialismsMu.Lock()
	defer initialismsMu.Unlock()
	for _, init := range initialisms {
		commonInitialisms[strings.ToUpper(init)] = true
	}
}

// PascalCase joins the words of s, capitalizing each and upper-casing
// known initialisms. Used for synthetic names built from field paths.
func PascalCase(s string) string {
	words := splitWords(s)
	initialismsMu.RLock()
	defer initialismsMu.RUnlock()
	var result strings.Builder
	for _, word := range words {
		upper := strings.ToUpper(word)
		if commonInitialisms[upper] {
			result.WriteString(upper)
		} else {
			result.WriteString(capitalize(word))
		}
	}
	return result.String()
}

// Identifier turns a declared type name into a definition name. The
// casing of each piece is kept; characters that cannot appear in a JSON
// pointer segment without escaping act as separators.
func Identifier(s string) string {
	var result strings.Builder
	upperNext := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			upperNext = true
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		result.WriteRune(r)
	}
	return result.String()
}

// WithSuffix returns the n-th variant of name: name, name2, name3, ...
func WithSuffix(name string, n int) string {
	if n <= 1 {
		return name
	}
	return name + strconv.Itoa(n)
}

func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	for i, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			continue
		}

		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				if current.Len() > 0 {
					words = append(words, current.String())
					current.Reset()
				}
			}
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
