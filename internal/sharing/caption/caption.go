// Package caption generates social post captions for shared testimonials and
// cleans raw transcriptions into display quotes. It performs no I/O.
package caption

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var localesYAML []byte

var ErrInvalidLocale = errors.New("invalid locale")

// Input holds the values substituted into a caption template.
type Input struct {
	FirstName       string
	CompanyName     string
	DurationSeconds *int
	Locale          string
}

type localeData struct {
	Caption             string   `yaml:"caption"`
	CaptionWithDuration string   `yaml:"caption_with_duration"`
	Fillers             []string `yaml:"fillers"`
	// Leading fillers are only dropped when they open a clause.
	Leading []string `yaml:"leading"`
}

type catalogFile struct {
	Default string                `yaml:"default"`
	Locales map[string]localeData `yaml:"locales"`
}

type locale struct {
	localeData
	fillers [][]string
	leading [][]string
}

type catalog struct {
	locales []locale
	matcher language.Matcher
}

var defaultCatalog = mustLoadCatalog(localesYAML)

func mustLoadCatalog(data []byte) *catalog {
	c, err := loadCatalog(data)
	if err != nil {
		panic(fmt.Sprintf("caption: load locales: %v", err))
	}
	return c
}

func loadCatalog(data []byte) (*catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if _, ok := file.Locales[file.Default]; !ok {
		return nil, fmt.Errorf("default locale %q has no entry", file.Default)
	}

	// The matcher falls back to the first tag, so the default goes first.
	codes := make([]string, 0, len(file.Locales))
	for code := range file.Locales {
		if code != file.Default {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	codes = append([]string{file.Default}, codes...)

	c := &catalog{locales: make([]locale, 0, len(codes))}
	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", code, err)
		}
		data := file.Locales[code]
		if data.Caption == "" || data.CaptionWithDuration == "" {
			return nil, fmt.Errorf("locale %q: missing caption template", code)
		}
		tags = append(tags, tag)
		c.locales = append(c.locales, locale{
			localeData: data,
			fillers:    splitFillers(data.Fillers),
			leading:    splitFillers(data.Leading),
		})
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

// splitFillers tokenizes fillers, longest phrase first so multi-word fillers win.
func splitFillers(fillers []string) [][]string {
	out := make([][]string, 0, len(fillers))
	for _, f := range fillers {
		if words := strings.Fields(strings.ToLower(f)); len(words) > 0 {
			out = append(out, words)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func (c *catalog) resolve(value string) locale {
	value = strings.TrimSpace(value)
	if value == "" {
		return c.locales[0]
	}
	tag, err := language.Parse(value)
	if err != nil {
		return c.locales[0]
	}
	_, index, confidence := c.matcher.Match(tag)
	if confidence == language.No {
		return c.locales[0]
	}
	return c.locales[index]
}

// ValidateLocale accepts an empty locale or any well-formed BCP-47 tag.
func ValidateLocale(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := language.Parse(value); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLocale, value)
	}
	return nil
}

// Generate renders the caption for in. Unsupported locales use the default.
func Generate(in Input) string {
	loc := defaultCatalog.resolve(in.Locale)

	template := loc.Caption
	duration := ""
	if in.DurationSeconds != nil && *in.DurationSeconds > 0 {
		template = loc.CaptionWithDuration
		duration = strconv.Itoa(*in.DurationSeconds)
	}

	return strings.NewReplacer(
		"{name}", strings.TrimSpace(in.FirstName),
		"{company}", strings.TrimSpace(in.CompanyName),
		"{duration}", duration,
	).Replace(template)
}

// CleanTranscription turns a raw transcript into a display quote: filler words
// of the locale are removed, whitespace collapsed, the first letter
// capitalized and terminal punctuation ensured.
func CleanTranscription(text, localeValue string) string {
	loc := defaultCatalog.resolve(localeValue)

	words := stripFillers(strings.Fields(text), loc.fillers, loc.leading)
	cleaned := strings.TrimRight(strings.Join(words, " "), ",;: ")
	cleaned = strings.TrimLeft(cleaned, ",;: ")
	if cleaned == "" {
		return ""
	}
	return ensureTerminalPunctuation(capitalizeFirst(cleaned))
}

func stripFillers(words []string, fillers, leading [][]string) []string {
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		if n := matchFiller(words[i:], fillers); n > 0 {
			i += n
			continue
		}
		if opensClause(out) {
			if n := matchFiller(words[i:], leading); n > 0 {
				i += n
				continue
			}
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func matchFiller(words []string, fillers [][]string) int {
	for _, filler := range fillers {
		if len(filler) > len(words) {
			continue
		}
		matched := true
		for k, fw := range filler {
			if normalizeWord(words[k]) != fw {
				matched = false
				break
			}
		}
		if matched {
			return len(filler)
		}
	}
	return 0
}

// opensClause reports whether the next word starts a sentence or clause.
func opensClause(kept []string) bool {
	if len(kept) == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(kept[len(kept)-1])
	switch r {
	case '.', '!', '?', '…', ',', ';', ':':
		return true
	}
	return false
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimFunc(word, unicode.IsPunct))
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func ensureTerminalPunctuation(s string) string {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '!', '?', '…':
		return s
	}
	return s + "."
}
