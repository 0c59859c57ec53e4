// Package domain selects branding, audience and content by hostname.
package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid domain config")

type Audience string

const (
	AudienceSMB          Audience = "smb"
	AudienceProfessional Audience = "professional"
)

func (a Audience) Valid() bool {
	return a == AudienceSMB || a == AudienceProfessional
}

// Section identifies a block of page content. The set is closed; every
// DomainConfig must carry content for each one.
type Section string

const (
	SectionHero     Section = "hero"
	SectionFeatures Section = "features"
	SectionPricing  Section = "pricing"
	SectionCTA      Section = "cta"
	SectionFooter   Section = "footer"
)

// Sections lists every Section in page order.
func Sections() []Section {
	return []Section{SectionHero, SectionFeatures, SectionPricing, SectionCTA, SectionFooter}
}

// ParseSection converts a string to a known Section.
func ParseSection(s string) (Section, bool) {
	for _, sec := range Sections() {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

type Branding struct {
	Name        string `yaml:"name" json:"name"`
	Tagline     string `yaml:"tagline" json:"tagline"`
	Description string `yaml:"description" json:"description"`
}

type Analytics struct {
	MeasurementID string `yaml:"measurement_id" json:"measurement_id"`
}

type SectionContent struct {
	Headline string `yaml:"headline" json:"headline"`
	Body     string `yaml:"body" json:"body"`
	CTALabel string `yaml:"cta_label,omitempty" json:"cta_label,omitempty"`
}

type DomainConfig struct {
	Domain    string                     `yaml:"domain" json:"domain"`
	Branding  Branding                   `yaml:"branding" json:"branding"`
	Audience  Audience                   `yaml:"audience" json:"audience"`
	Analytics Analytics                  `yaml:"analytics" json:"analytics"`
	Content   map[Section]SectionContent `yaml:"content" json:"content"`
}

// Validate checks that the config is complete.
func (c DomainConfig) Validate() error {
	if c.Domain == "" {
		return fmt.Errorf("%w: empty domain", ErrInvalidConfig)
	}
	if c.Branding.Name == "" {
		return fmt.Errorf("%w: %s has no branding name", ErrInvalidConfig, c.Domain)
	}
	if !c.Audience.Valid() {
		return fmt.Errorf("%w: %s has unknown audience %q", ErrInvalidConfig, c.Domain, c.Audience)
	}
	for _, sec := range Sections() {
		content, ok := c.Content[sec]
		if !ok || content.Headline == "" {
			return fmt.Errorf("%w: %s is missing section %q", ErrInvalidConfig, c.Domain, sec)
		}
	}
	for sec := range c.Content {
		if _, ok := ParseSection(string(sec)); !ok {
			return fmt.Errorf("%w: %s has unknown section %q", ErrInvalidConfig, c.Domain, sec)
		}
	}
	return nil
}
