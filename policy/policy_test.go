package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.Equal(t, "article", p.DefaultResourceType)
	assert.Equal(t, 3, p.MaxCandidates)
	assert.Equal(t, []string{"freeCodeCamp", "Traversy Media", "Programming with Mosh"}, p.YouTube.ActiveChannels())
	assert.Len(t, p.YouTube.UnavailableMarkers, 10)
	assert.Equal(t, "videoDetails", p.YouTube.Metadata.JSONKey)

	for _, kind := range []string{"article", "blog", "docs", "tutorial", "course", "guide"} {
		assert.NotEmpty(t, p.Platforms[kind], kind)
	}
}

func TestDefault_ReturnsCopies(t *testing.T) {
	a := Default()
	a.YouTube.Channels[0] = "changed"
	a.Platforms["docs"] = nil

	b := Default()
	assert.Equal(t, "freeCodeCamp", b.YouTube.Channels[0])
	assert.NotEmpty(t, b.Platforms["docs"])
}

func TestPlatformExpand(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		topic    string
		want     string
	}{
		{
			name:     "query with spaces",
			platform: Platform{URL: "https://dev.to/search?q={query}"},
			topic:    "React Hooks",
			want:     "https://dev.to/search?q=React%20Hooks",
		},
		{
			name:     "suffix",
			platform: Platform{URL: "https://dev.to/search?q={query}", Suffix: " tutorial"},
			topic:    "Go",
			want:     "https://dev.to/search?q=Go%20tutorial",
		},
		{
			name:     "reserved characters",
			platform: Platform{URL: "https://x.test/?q={query}"},
			topic:    "C++ & Rust/WASM",
			want:     "https://x.test/?q=C%2B%2B%20%26%20Rust%2FWASM",
		},
		{
			name:     "no placeholder",
			platform: Platform{URL: "https://www.freecodecamp.org/learn"},
			topic:    "anything",
			want:     "https://www.freecodecamp.org/learn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.platform.Expand(tt.topic))
		})
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	doc := `
youtube:
  channels: [Fireship]
max_candidates: 2
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Fireship"}, p.YouTube.Channels)
	assert.Equal(t, 2, p.MaxCandidates)
	assert.Equal(t, "https://www.youtube.com/results?search_query={query}", p.YouTube.SearchURL)
	assert.Len(t, p.YouTube.UnavailableMarkers, 10)
	assert.NotEmpty(t, p.Platforms["course"])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_candidates: [oops"), 0o600))
	_, err = Load(path)
	require.Error(t, err)

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_candidates: 0\nweb_search:\n  url: \"\"\n"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_candidates")
	assert.Contains(t, err.Error(), "web_search.url")
}

func TestParse_RejectsIncompletePolicy(t *testing.T) {
	_, err := Parse([]byte("default_resource_type: article\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "youtube.search_url")
}

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"React Hooks", "React%20Hooks"},
		{"C++ templates", "C%2B%2B%20templates"},
		{"what's new (2024)!", "what's%20new%20(2024)!"},
		{"a*b", "a*b"},
		{"x&y=z/w?", "x%26y%3Dz%2Fw%3F"},
		{"café", "caf%C3%A9"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeQuery(tt.in))
		})
	}
}
