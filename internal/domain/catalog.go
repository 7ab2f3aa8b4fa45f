package domain

import (
	"fmt"
	"strings"
	"unicode"
)

type Specialization string

const (
	SpecializationBackend     Specialization = "Backend"
	SpecializationFrontend    Specialization = "Frontend"
	SpecializationFullstack   Specialization = "Fullstack"
	SpecializationMobile      Specialization = "Mobile"
	SpecializationDevOps      Specialization = "DevOps"
	SpecializationDataScience Specialization = "Data Science"
	SpecializationQA          Specialization = "QA"
	SpecializationManagement  Specialization = "Management"
)

var specializationList = []Specialization{
	SpecializationBackend, SpecializationFrontend, SpecializationFullstack, SpecializationMobile,
	SpecializationDevOps, SpecializationDataScience, SpecializationQA, SpecializationManagement,
}

var specializations = catalog(specializationList...)

type Language string

const (
	LanguagePython     Language = "Python"
	LanguageJavaScript Language = "JavaScript"
	LanguageTypeScript Language = "TypeScript"
	LanguageGo         Language = "Go"
	LanguageJava       Language = "Java"
	LanguageKotlin     Language = "Kotlin"
	LanguageSwift      Language = "Swift"
	LanguagePHP        Language = "PHP"
	LanguageCPP        Language = "C++"
	LanguageCSharp     Language = "C#"
	LanguageRust       Language = "Rust"
	LanguageRuby       Language = "Ruby"
)

var languageList = []Language{
	LanguagePython, LanguageJavaScript, LanguageTypeScript, LanguageGo, LanguageJava, LanguageKotlin,
	LanguageSwift, LanguagePHP, LanguageCPP, LanguageCSharp, LanguageRust, LanguageRuby,
}

var languages = catalog(languageList...)

type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

var currencyList = []Currency{CurrencyRUB, CurrencyUSD, CurrencyEUR}

var currencies = catalog(currencyList...)

type WorkFormat string

const (
	WorkFormatRemote    WorkFormat = "REMOTE"
	WorkFormatHybrid    WorkFormat = "HYBRID"
	WorkFormatOnsite    WorkFormat = "ONSITE"
	WorkFormatUndefined WorkFormat = "UNDEFINED"
)

var workFormatList = []WorkFormat{WorkFormatRemote, WorkFormatHybrid, WorkFormatOnsite, WorkFormatUndefined}

var workFormats = catalog(workFormatList...)

// FilterMode controls whether a candidate preference may reject a vacancy.
type FilterMode string

const (
	FilterStrict FilterMode = "STRICT"
	FilterSoft   FilterMode = "SOFT"
)

type (
	SpecializationSet = Set[Specialization]
	LanguageSet       = Set[Language]
)

func catalog[T ~string](values ...T) map[string]T {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[strings.ToLower(string(v))] = v
	}
	return m
}

func lookup[T ~string](m map[string]T, raw string) (T, bool) {
	v, ok := m[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

// ParseSpecialization matches raw case-insensitively against the known specializations.
func ParseSpecialization(raw string) (Specialization, bool) { return lookup(specializations, raw) }

// ParseLanguage matches raw case-insensitively against the known languages.
func ParseLanguage(raw string) (Language, bool) { return lookup(languages, raw) }

func ParseCurrency(raw string) (Currency, bool) { return lookup(currencies, raw) }

// ParseWorkFormat never fails: unknown or empty input is UNDEFINED.
func ParseWorkFormat(raw string) WorkFormat {
	if v, ok := lookup(workFormats, raw); ok {
		return v
	}
	return WorkFormatUndefined
}

// ParseFilterMode treats empty input as SOFT.
func ParseFilterMode(raw string) (FilterMode, error) {
	switch FilterMode(strings.ToUpper(strings.TrimSpace(raw))) {
	case FilterStrict:
		return FilterStrict, nil
	case FilterSoft, "":
		return FilterSoft, nil
	}
	return "", fmt.Errorf("unknown filter mode %q", raw)
}

func ParseSpecializations(raw []string) SpecializationSet {
	return parseSet(raw, ParseSpecialization)
}

func ParseLanguages(raw []string) LanguageSet {
	return parseSet(raw, ParseLanguage)
}

// NormalizeTechStack trims entries, drops empty ones and brings each to
// capitalized form ("fastAPI" -> "Fastapi").
func NormalizeTechStack(raw []string) Set[string] {
	return parseSet(raw, func(token string) (string, bool) {
		token = strings.TrimSpace(token)
		if token == "" {
			return "", false
		}
		runes := []rune(strings.ToLower(token))
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes), true
	})
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// KnownSpecializations lists the recognized specializations in catalog order.
func KnownSpecializations() []string { return names(specializationList) }

func KnownLanguages() []string   { return names(languageList) }
func KnownCurrencies() []string  { return names(currencyList) }
func KnownWorkFormats() []string { return names(workFormatList) }
