// Package knowledge provides the immutable bilingual eye-health tables used
// whenever generative content is unavailable. The tables are embedded and
// parsed once; every accessor returns read-only data.
package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/iris/internal/disease"
)

//go:embed knowledge.yaml
var source []byte

// Lang is a supported reply language.
type Lang string

const (
	English Lang = "en"
	Tamil   Lang = "ta"
)

// ParseLang maps a request language tag to a Lang, defaulting to English.
func ParseLang(s string) Lang {
	if Lang(strings.ToLower(strings.TrimSpace(s))) == Tamil {
		return Tamil
	}
	return English
}

// Name returns the language name used in generative prompts.
func (l Lang) Name() string {
	if l == Tamil {
		return "Tamil"
	}
	return "English"
}

// Bundle is the pre-written explanatory content for one disease.
// List fields are newline-delimited.
type Bundle struct {
	English    string `yaml:"english"`
	Tamil      string `yaml:"tamil"`
	Symptoms   string `yaml:"symptoms"`
	Causes     string `yaml:"causes"`
	Treatment  string `yaml:"treatment"`
	Prevention string `yaml:"prevention"`
}

// Medical is the structured per-disease fact sheet used in chat replies.
type Medical struct {
	Name       string   `yaml:"name"`
	Definition string   `yaml:"definition"`
	Symptoms   []string `yaml:"symptoms"`
	Causes     []string `yaml:"causes"`
	Treatment  []string `yaml:"treatment"`
	Prevention []string `yaml:"prevention"`
	Urgency    string   `yaml:"urgency"`
}

// Category is a keyword-triggered set of canned chat replies.
// A category with no keywords is the general fallback.
type Category struct {
	Name      string   `yaml:"name"`
	Keywords  []string `yaml:"keywords"`
	Responses []string `yaml:"responses"`
}

// Matches reports whether message contains any of the category keywords.
// message is expected to be lower-cased.
func (c Category) Matches(message string) bool {
	for _, kw := range c.Keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// Headings label the sections of a structured chat reply.
// About is a format string taking the disease name.
type Headings struct {
	About     string `yaml:"about"`
	Symptoms  string `yaml:"symptoms"`
	WhatToDo  string `yaml:"what_to_do"`
	NextSteps string `yaml:"next_steps"`
}

// Language holds the chat phrasebook for one language. Urgency maps a
// Medical.Urgency level to advice.
type Language struct {
	EmptyPrompt string            `yaml:"empty_prompt"`
	Fallback    string            `yaml:"fallback"`
	Urgency     map[string]string `yaml:"urgency"`
	Headings    Headings          `yaml:"headings"`
	WhatToDo    []string          `yaml:"what_to_do"`
	Starters    []string          `yaml:"starters"`
	Closings    []string          `yaml:"closings"`
	Categories  []Category        `yaml:"categories"`
}

// Match returns the first category whose keywords occur in message,
// or the general category when none do.
func (l Language) Match(message string) Category {
	message = strings.ToLower(message)
	var general Category
	for _, c := range l.Categories {
		if len(c.Keywords) == 0 {
			general = c
			continue
		}
		if c.Matches(message) {
			return c
		}
	}
	return general
}

// Trigger associates a disease with the chat keywords that mention it.
type Trigger struct {
	Disease  disease.Disease `yaml:"disease"`
	Keywords []string        `yaml:"keywords"`
}

// Base is the parsed knowledge base.
type Base struct {
	Disclaimer       string                               `yaml:"disclaimer"`
	ReportDisclaimer string                               `yaml:"report_disclaimer"`
	Bundles          map[disease.Disease]Bundle           `yaml:"content"`
	DiseaseKeywords  []Trigger                            `yaml:"disease_keywords"`
	Facts            map[disease.Disease]map[Lang]Medical `yaml:"medical"`
	Chat             map[Lang]Language                    `yaml:"chat"`
}

// Load parses the embedded tables and verifies every disease and language
// has an entry.
func Load() (*Base, error) {
	return Parse(source)
}

// Parse decodes and validates a knowledge document.
func Parse(data []byte) (*Base, error) {
	var b Base
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("invalid knowledge base: %w", err)
	}
	return &b, nil
}

// Content returns the fallback bundle for d. Unknown diseases get the normal bundle.
func (b *Base) Content(d disease.Disease) Bundle {
	if bundle, ok := b.Bundles[d]; ok {
		return bundle
	}
	return b.Bundles[disease.Normal]
}

// Medical returns the fact sheet for d in lang.
func (b *Base) Medical(d disease.Disease, lang Lang) (Medical, bool) {
	facts, ok := b.Facts[d]
	if !ok {
		return Medical{}, false
	}
	m, ok := facts[lang]
	if !ok {
		m, ok = facts[English]
	}
	return m, ok
}

// Language returns the chat phrasebook for lang, defaulting to English.
func (b *Base) Language(lang Lang) Language {
	if l, ok := b.Chat[lang]; ok {
		return l
	}
	return b.Chat[English]
}

// DetectDisease returns the first disease whose keywords occur in message.
func (b *Base) DetectDisease(message string) (disease.Disease, bool) {
	message = strings.ToLower(message)
	for _, dk := range b.DiseaseKeywords {
		for _, kw := range dk.Keywords {
			if strings.Contains(message, kw) {
				return dk.Disease, true
			}
		}
	}
	return "", false
}

func (b *Base) validate() error {
	if b.Disclaimer == "" || b.ReportDisclaimer == "" {
		return fmt.Errorf("disclaimers required")
	}
	for _, d := range disease.Classes {
		if _, ok := b.Bundles[d]; !ok {
			return fmt.Errorf("content missing for %s", d)
		}
		if _, ok := b.Facts[d][English]; !ok {
			return fmt.Errorf("medical facts missing for %s", d)
		}
	}
	for _, dk := range b.DiseaseKeywords {
		if !dk.Disease.Known() {
			return fmt.Errorf("keywords for unknown disease %s", dk.Disease)
		}
	}
	for _, lang := range []Lang{English, Tamil} {
		l, ok := b.Chat[lang]
		if !ok {
			return fmt.Errorf("chat phrasebook missing for %s", lang)
		}
		if l.EmptyPrompt == "" || l.Fallback == "" {
			return fmt.Errorf("%s: empty_prompt and fallback required", lang)
		}
		if len(l.Starters) == 0 || len(l.Closings) == 0 {
			return fmt.Errorf("%s: starters and closings required", lang)
		}
		if len(l.Match("").Responses) == 0 {
			return fmt.Errorf("%s: general category required", lang)
		}
	}
	return nil
}
