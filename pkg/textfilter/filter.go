package textfilter

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words that disqualify generated content for the game's 13+ audience.
// Generated prose that trips this list is replaced with a fallback,
// never shown to the player.
var blockedWords = []string{
	"murder", "gore", "corpse",
	"sex", "sexual", "nude", "naked",
	"cocaine", "heroin", "meth",
	"fuck", "shit", "bitch", "bastard",
	"motherfucker", "goddamn", "asshole", "bullshit",
}

// Milder words get softened in place instead of blocking the content.
var softenedWords = map[string]string{
	"damn":  "dang",
	"hell":  "heck",
	"crap":  "crud",
	"ass":   "butt",
	"piss":  "ticked",
	"kill":  "defeat",
	"blood": "ichor",
	"death": "doom",
}

// ContentFilter screens generated narrative for age-appropriate output.
type ContentFilter struct {
	blocked  []*regexp.Regexp
	softened map[string]*regexp.Regexp
}

// NewContentFilter compiles the filter patterns once for reuse across
// turns.
func NewContentFilter() *ContentFilter {
	cf := &ContentFilter{
		softened: make(map[string]*regexp.Regexp, len(softenedWords)),
	}
	for _, word := range blockedWords {
		cf.blocked = append(cf.blocked, wordPattern(word))
	}
	for word := range softenedWords {
		cf.softened[word] = wordPattern(word)
	}
	return cf
}

func wordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

// Appropriate reports whether text is suitable for the 13+ audience.
func (cf *ContentFilter) Appropriate(text string) bool {
	for _, re := range cf.blocked {
		if re.MatchString(text) {
			return false
		}
	}
	return true
}

// Soften replaces milder flagged words with family-friendly alternatives,
// preserving the case of the original word.
func (cf *ContentFilter) Soften(text string) string {
	result := text
	for word, re := range cf.softened {
		replacement := softenedWords[word]
		result = re.ReplaceAllStringFunc(result, func(match string) string {
			return preserveCase(match, replacement)
		})
	}
	return result
}

// preserveCase applies the case pattern of the original word to the
// replacement.
func preserveCase(original, replacement string) string {
	if original == "" {
		return replacement
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(replacement)
	}
	titleCaser := cases.Title(language.English)
	if titleCaser.String(strings.ToLower(original)) == original {
		return titleCaser.String(replacement)
	}
	return strings.ToLower(replacement)
}
