package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxSlugLength caps persisted slugs so they stay usable in URLs
const maxSlugLength = 80

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify normalizes a display name into a URL-safe slug: diacritics are
// stripped, everything is lowercased, and runs of non-alphanumeric characters
// collapse into a single hyphen. Returns "" when nothing survives.
func Slugify(name string) string {
	stripped, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	b.Grow(len(stripped))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.Trim(slug[:maxSlugLength], "-")
	}
	return slug
}

// ImportSlug derives the persisted slug for an imported product. The external
// id is always suffixed so re-imports of similarly-titled products never
// collide; when the title normalizes to nothing the raw external id is used.
func ImportSlug(title, externalID string) string {
	slug := Slugify(title)
	if slug == "" {
		return externalID
	}
	return slug + "-" + externalID
}
