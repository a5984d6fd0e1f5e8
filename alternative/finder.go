// Package alternative builds fallback links for dead resources. It never
// touches the network: every candidate is a search page on a trusted
// platform, which is assumed to be reachable.
package alternative

import (
	"strings"

	"go.uber.org/zap"

	"github.com/soumyaswe/Pravartak-AI-sub000/policy"
	"github.com/soumyaswe/Pravartak-AI-sub000/urlutil"
)

// Result is the outcome of an alternative lookup.
type Result struct {
	Found        bool   `json:"found"`
	URL          string `json:"alternative_url,omitempty"`
	Topic        string `json:"topic"`
	ResourceType string `json:"resource_type,omitempty"` // general path only
	IsSearchURL  bool   `json:"is_search_url"`           // YouTube path only
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(f *Finder) { f.logger = l }
}

// Finder maps dead links to replacement search links using a Policy.
type Finder struct {
	policy *policy.Policy
	logger *zap.Logger
}

// New creates a Finder. A nil policy selects policy.Default().
func New(p *policy.Policy, opts ...Option) *Finder {
	if p == nil {
		p = policy.Default()
	}
	f := &Finder{policy: p, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

// Find dispatches to FindYouTube or FindGeneral based on the dead URL's host.
func (f *Finder) Find(originalURL, linkText string) Result {
	if urlutil.IsYouTubeURL(originalURL) {
		return f.FindYouTube(originalURL, linkText)
	}
	return f.FindGeneral(originalURL, linkText)
}

// FindYouTube returns a YouTube search for the link's topic on the first
// trusted channel. Found is false only when no topic can be derived.
func (f *Finder) FindYouTube(originalURL, linkText string) Result {
	topic := Topic(linkText)
	if topic == "" {
		f.logger.Debug("no topic in link text", zap.String("url", originalURL), zap.String("text", linkText))
		return Result{}
	}

	candidates := f.YouTubeCandidates(topic)
	f.logger.Debug("youtube alternative",
		zap.String("url", originalURL),
		zap.String("topic", topic),
		zap.String("alternative", candidates[0]),
	)
	return Result{Found: true, URL: candidates[0], Topic: topic, IsSearchURL: true}
}

// YouTubeCandidates returns one search URL per active trusted channel, or a
// single generic tutorial search when no channels are configured.
func (f *Finder) YouTubeCandidates(topic string) []string {
	yt := f.policy.YouTube
	channels := yt.ActiveChannels()
	if len(channels) == 0 {
		return []string{policy.ExpandTemplate(yt.SearchURL, topic+yt.FallbackSuffix)}
	}

	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		out = append(out, policy.ExpandTemplate(yt.SearchURL, topic+" "+ch))
	}
	return out
}

// FindGeneral returns the first platform search for the link's topic and
// detected resource type.
func (f *Finder) FindGeneral(originalURL, linkText string) Result {
	topic := Topic(linkText)
	if topic == "" {
		f.logger.Debug("no topic in link text", zap.String("url", originalURL), zap.String("text", linkText))
		return Result{}
	}

	kind := f.DetectResourceType(linkText)
	candidates := f.Candidates(topic, kind)
	if len(candidates) == 0 {
		return Result{}
	}

	f.logger.Debug("general alternative",
		zap.String("url", originalURL),
		zap.String("topic", topic),
		zap.String("resource_type", kind),
		zap.String("alternative", candidates[0]),
	)
	return Result{Found: true, URL: candidates[0], Topic: topic, ResourceType: kind}
}

// DetectResourceType returns the type of the first rule with a keyword
// contained in linkText, ignoring case, or the policy default.
func (f *Finder) DetectResourceType(linkText string) string {
	text := strings.ToLower(linkText)
	for _, rule := range f.policy.ResourceTypes {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.Type
			}
		}
	}
	return f.policy.DefaultResourceType
}

// Candidates lists the platform searches for resourceType followed by a web
// search, capped at the policy's MaxCandidates. Unknown types use the
// default type's platforms.
func (f *Finder) Candidates(topic, resourceType string) []string {
	platforms, ok := f.policy.Platforms[resourceType]
	if !ok {
		platforms = f.policy.Platforms[f.policy.DefaultResourceType]
	}

	out := make([]string, 0, len(platforms)+1)
	for _, p := range platforms {
		out = append(out, p.Expand(topic))
	}
	out = append(out, policy.ExpandTemplate(f.policy.WebSearch.URL, topic+" "+resourceType))

	if limit := f.policy.MaxCandidates; limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SearchURL returns a plain web search for topic. It is the last resort
// when no alternative could be found.
func (f *Finder) SearchURL(topic string) string {
	return policy.ExpandTemplate(f.policy.WebSearch.URL, topic)
}
