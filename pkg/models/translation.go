// Package models contains shared data models used across the portfolio-api codebase.
package models

import (
	"time"
)

// Locale codes for every language the site serves. English is the source
// of truth; all other locales are derived from it.
const (
	LocaleEnglish = "en"
	LocaleArabic  = "ar"
	LocaleTurkish = "tr"
	LocaleItalian = "it"
	LocaleFrench  = "fr"
	LocaleGerman  = "de"
)

// SupportedLocales is the fixed set of locales, English first.
var SupportedLocales = []string{
	LocaleEnglish,
	LocaleArabic,
	LocaleTurkish,
	LocaleItalian,
	LocaleFrench,
	LocaleGerman,
}

// DefaultTargetLocales is every supported locale except English.
var DefaultTargetLocales = []string{
	LocaleArabic,
	LocaleTurkish,
	LocaleItalian,
	LocaleFrench,
	LocaleGerman,
}

// IsSupportedLocale reports whether code is one of the supported locales.
func IsSupportedLocale(code string) bool {
	for _, l := range SupportedLocales {
		if l == code {
			return true
		}
	}
	return false
}

// IsRTL reports whether a locale renders right-to-left.
// Arabic is the only RTL locale in the supported set.
func IsRTL(locale string) bool {
	return locale == LocaleArabic
}

// TranslationRecord is one row of the translations table: a single content
// key with one value per locale. The en value is never empty once the
// record exists.
type TranslationRecord struct {
	Key            string            `db:"key"             json:"key"`
	Values         map[string]string `json:"values"`
	AutoTranslated bool              `db:"auto_translated" json:"auto_translated"`
	NeedsReview    bool              `db:"needs_review"    json:"needs_review"`
	UpdatedAt      time.Time         `db:"updated_at"      json:"updated_at"`
}

// HasLocales reports whether the record has a non-empty value for every
// locale in locales.
func (r *TranslationRecord) HasLocales(locales []string) bool {
	if r == nil {
		return false
	}
	for _, l := range locales {
		if r.Values[l] == "" {
			return false
		}
	}
	return true
}

// TranslationRequest is the input to one Engine.TranslateContent call.
type TranslationRequest struct {
	Key           string
	Text          string
	SourceLocale  string
	TargetLocales []string
	Context       string // optional hint passed through to providers
}

// LocaleError records a single target locale that could not be translated.
type LocaleError struct {
	Locale  string `json:"locale"`
	Message string `json:"message"`
}

// TranslationResult is the output of one Engine.TranslateContent call.
// Translations holds the directionality-processed text that gets stored;
// Raw holds the provider output before processing. Both maps always have
// an entry for every requested target locale.
type TranslationResult struct {
	Key          string            `json:"key"`
	Translations map[string]string `json:"translations"`
	Raw          map[string]string `json:"-"`
	Success      bool              `json:"success"`
	Errors       []LocaleError     `json:"errors,omitempty"`
}

// ErrorFor returns the recorded error message for a locale, or "".
func (r *TranslationResult) ErrorFor(locale string) string {
	for _, e := range r.Errors {
		if e.Locale == locale {
			return e.Message
		}
	}
	return ""
}
