// Package policy holds the editable tables that drive link replacement:
// trusted YouTube channels, per resource type search platforms, the keyword
// rules that pick a resource type, and the markers used to sniff unavailable
// YouTube videos.
package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// QueryPlaceholder is replaced by the percent-encoded search term in URL
// templates.
const QueryPlaceholder = "{query}"

//go:embed default.yaml
var defaultYAML []byte

// Policy is the full replacement policy.
type Policy struct {
	YouTube             YouTube               `yaml:"youtube"`
	DefaultResourceType string                `yaml:"default_resource_type"`
	ResourceTypes       []ResourceRule        `yaml:"resource_types"`
	Platforms           map[string][]Platform `yaml:"platforms"`
	WebSearch           Platform              `yaml:"web_search"`
	MaxCandidates       int                   `yaml:"max_candidates"`
}

// YouTube configures the YouTube search fallback and soft-404 detection.
type YouTube struct {
	SearchURL          string   `yaml:"search_url"`
	Channels           []string `yaml:"channels"`
	ChannelLimit       int      `yaml:"channel_limit"`
	FallbackSuffix     string   `yaml:"fallback_suffix"`
	UnavailableMarkers []string `yaml:"unavailable_markers"`
	Metadata           Metadata `yaml:"metadata"`
}

// Metadata lists the signals that confirm a page is a real video page.
type Metadata struct {
	JSONKey            string `yaml:"json_key"`
	MetaPropertyPrefix string `yaml:"meta_property_prefix"`
	ItemProp           string `yaml:"itemprop"`
}

// ResourceRule maps link-text keywords to a resource type.
type ResourceRule struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// Platform is a search page on a learning platform. Suffix is appended to
// the topic before it is encoded into URL.
type Platform struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Suffix string `yaml:"suffix,omitempty"`
}

// Expand returns the platform URL for topic.
func (p Platform) Expand(topic string) string {
	return ExpandTemplate(p.URL, topic+p.Suffix)
}

// ExpandTemplate substitutes the encoded query into template. Templates
// without a placeholder are returned unchanged.
func ExpandTemplate(template, query string) string {
	return strings.ReplaceAll(template, QueryPlaceholder, EncodeQuery(query))
}

// EncodeQuery percent-encodes s the way encodeURIComponent does: spaces
// become %20 and the marks !'()* stay literal.
func EncodeQuery(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Default returns a fresh copy of the built-in policy.
func Default() *Policy {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("policy: embedded default is invalid: %v", err))
	}
	return p
}

// Load reads a YAML policy file. Fields missing from the file keep their
// built-in values; lists and platform entries present in the file replace
// the defaults for that key.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("policy %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a complete policy document.
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate reports every problem with the policy at once.
func (p *Policy) Validate() error {
	var errs []error

	if !strings.Contains(p.YouTube.SearchURL, QueryPlaceholder) {
		errs = append(errs, fmt.Errorf("youtube.search_url must contain %s", QueryPlaceholder))
	}
	if p.YouTube.ChannelLimit < 0 {
		errs = append(errs, errors.New("youtube.channel_limit must not be negative"))
	}
	for i, m := range p.YouTube.UnavailableMarkers {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("youtube.unavailable_markers[%d] is empty", i))
		}
	}
	if p.WebSearch.URL == "" {
		errs = append(errs, errors.New("web_search.url is required"))
	}
	if p.MaxCandidates < 1 {
		errs = append(errs, errors.New("max_candidates must be at least 1"))
	}
	if _, ok := p.Platforms[p.DefaultResourceType]; !ok {
		errs = append(errs, fmt.Errorf("default_resource_type %q has no platforms", p.DefaultResourceType))
	}
	for i, rule := range p.ResourceTypes {
		if rule.Type == "" || len(rule.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("resource_types[%d] needs a type and keywords", i))
		}
	}
	for kind, platforms := range p.Platforms {
		for i, pl := range platforms {
			if pl.URL == "" {
				errs = append(errs, fmt.Errorf("platforms.%s[%d] has no url", kind, i))
			}
		}
	}

	return errors.Join(errs...)
}

// ActiveChannels returns the trusted channels used for YouTube searches, capped at
// ChannelLimit when it is positive.
func (y YouTube) ActiveChannels() []string {
	if y.ChannelLimit > 0 && len(y.Channels) > y.ChannelLimit {
		return y.Channels[:y.ChannelLimit]
	}
	return y.Channels
}
