package model

import "sort"

// LocalizedString maps a locale (e.g. "en", "fr_CA") to a text value.
type LocalizedString map[string]string

// Locales returns the locales with a non-empty value, sorted.
func (l LocalizedString) Locales() []string {
	locales := make([]string, 0, len(l))
	for locale, value := range l {
		if value == "" {
			continue
		}
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Get returns the value for the given locale.
func (l LocalizedString) Get(locale string) string {
	if l == nil {
		return ""
	}
	return l[locale]
}

// Set assigns a value. Empty values remove the locale.
func (l *LocalizedString) Set(locale, value string) {
	if value == "" {
		if *l != nil {
			delete(*l, locale)
		}
		return
	}
	if *l == nil {
		*l = LocalizedString{}
	}
	(*l)[locale] = value
}

// Any returns the value of the preferred locale or, when missing, the first
// non-empty value in locale order.
func (l LocalizedString) Any(preferred string) string {
	if v := l.Get(preferred); v != "" {
		return v
	}
	for _, locale := range l.Locales() {
		return l[locale]
	}
	return ""
}

// Vocabulary maps a locale to the list of controlled vocabulary terms, e.g.
// keywords or subjects.
type Vocabulary map[string][]string

// Locales returns the locales with at least one term, sorted.
func (v Vocabulary) Locales() []string {
	locales := make([]string, 0, len(v))
	for locale, terms := range v {
		if len(terms) == 0 {
			continue
		}
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Add appends a term, ignoring empty strings.
func (v *Vocabulary) Add(locale, term string) {
	if term == "" {
		return
	}
	if *v == nil {
		*v = Vocabulary{}
	}
	(*v)[locale] = append((*v)[locale], term)
}
