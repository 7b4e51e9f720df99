// Package bidi fixes the display of Latin technical tokens inside
// right-to-left paragraph flow. Multi-character terms like "React" or
// "Node.js" get visually inverted by the Unicode bidi algorithm when they
// appear inside Arabic prose; the standard mitigation is an explicit
// left-to-right inline isolation span. Known multi-word professional
// phrases are substituted with a localized equivalent instead.
//
// All functions are pure; Process is idempotent.
package bidi

import (
	"regexp"
	"sort"
	"strings"
)

const (
	ltrOpen  = `<span dir="ltr">`
	ltrClose = `</span>`
)

// phraseTable maps English professional phrases to their Arabic
// equivalents. Substitution runs before term wrapping so a phrase never
// gets split by a span.
var phraseTable = map[string]string{
	"Full-Stack Developer":  "مطور متكامل",
	"Full Stack Developer":  "مطور متكامل",
	"Software Engineer":     "مهندس برمجيات",
	"Frontend Developer":    "مطور واجهات أمامية",
	"Backend Developer":     "مطور خلفي",
	"Mobile Developer":      "مطور تطبيقات جوال",
	"Data Engineer":         "مهندس بيانات",
	"Machine Learning":      "تعلم الآلة",
	"Computer Science":      "علوم الحاسوب",
	"Open Source":           "مفتوح المصدر",
}

// technicalTerms are product names, language names, and protocol acronyms
// that must stay left-to-right. Matched case-insensitively on word
// boundaries.
var technicalTerms = []string{
	"React", "Next.js", "Node.js", "TypeScript", "JavaScript", "Python",
	"Golang", "Dart", "Flutter", "Firebase", "Supabase", "PostgreSQL",
	"Redis", "Docker", "Kubernetes", "GraphQL", "REST", "gRPC", "API",
	"HTML", "CSS", "SQL", "JSON", "HTTP", "OAuth", "Git", "GitHub",
	"Linux", "AWS", "Tailwind",
}

var (
	phrasePatterns []phrasePattern
	termPattern    *regexp.Regexp
)

type phrasePattern struct {
	re          *regexp.Regexp
	replacement string
}

func init() {
	// Longest phrase first so overlapping phrases resolve deterministically.
	phrases := make([]string, 0, len(phraseTable))
	for p := range phraseTable {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })
	for _, p := range phrases {
		phrasePatterns = append(phrasePatterns, phrasePattern{
			re:          regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p) + `\b`),
			replacement: phraseTable[p],
		})
	}

	// One alternation for all terms, longest first, so a single pass wraps
	// each match exactly once and "JavaScript" wins over a bare "Java".
	terms := make([]string, len(technicalTerms))
	copy(terms, technicalTerms)
	sort.Slice(terms, func(i, j int) bool { return len(terms[i]) > len(terms[j]) })
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	termPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// Processed reports whether text already carries a directionality wrapper.
func Processed(text string) bool {
	return strings.Contains(text, ltrOpen)
}

// Process rewrites text for correct rendering in an RTL paragraph.
// For LTR locales it returns text unchanged. A string that was already
// processed is returned unchanged, so Process(Process(s)) == Process(s).
func Process(text string, rightToLeft bool) string {
	if !rightToLeft || text == "" {
		return text
	}
	if Processed(text) {
		return text
	}

	out := text
	for _, p := range phrasePatterns {
		out = p.re.ReplaceAllString(out, p.replacement)
	}
	out = termPattern.ReplaceAllString(out, ltrOpen+"$1"+ltrClose)
	return out
}
