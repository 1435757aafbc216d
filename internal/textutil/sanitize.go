package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nameReplacer rewrites the reserved separator and path characters in
// identity strings.
var nameReplacer = strings.NewReplacer(
	":", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
)

// SanitizeFileName applies SanitizeName and then drops the characters that
// are unsafe in file names on any platform, along with trailing dots.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`*?"<>`, r) {
			return -1
		}
		return r
	}, SanitizeName(name))
	return strings.TrimRight(name, ".")
}

// SanitizeName makes an identity string safe for tag fields and paths. The
// reserved separator ':' and path separators become underscores, accents are
// folded to their base letters, and whitespace runs collapse to a single
// underscore. Case is preserved.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = foldAccents(name)
	name = nameReplacer.Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	space := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case !unicode.IsPrint(r):
			continue
		}
		if space {
			b.WriteByte('_')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
