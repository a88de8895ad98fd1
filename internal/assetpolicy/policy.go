package assetpolicy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultMaxBytes int64 = 10 << 20

// Policy declares which (scope, type, category) triples accept uploads.
// An empty category list for a declared (scope, type) pair leaves the
// category unrestricted.
type Policy struct {
	Scopes   map[string]map[string][]string `yaml:"scopes"`
	MIME     []string                       `yaml:"mime_types"`
	MaxBytes int64                          `yaml:"max_bytes"`
}

type Segment string

const (
	SegmentScope    Segment = "scope"
	SegmentType     Segment = "type"
	SegmentCategory Segment = "category"
	SegmentMIME     Segment = "mime"
)

// ValidationError names the request segment that failed the policy.
type ValidationError struct {
	Segment Segment
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("Invalid %s '%s'", e.Segment, e.Value)
	}
	return fmt.Sprintf("Invalid %s '%s'. Allowed: %s", e.Segment, e.Value, strings.Join(e.Allowed, ", "))
}

var typeAliases = map[string]string{
	"image":    "images",
	"video":    "videos",
	"document": "documents",
}

// NormalizeType maps singular type names onto their directory names.
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if alias, ok := typeAliases[t]; ok {
		return alias
	}
	return t
}

func Default() Policy {
	return Policy{
		Scopes: map[string]map[string][]string{
			"game": {
				"images":    {"avatars", "tilesets", "sprites", "backgrounds", "items", "ui"},
				"audio":     {"music", "sfx"},
				"json":      {"maps"},
				"videos":    {},
				"documents": {},
			},
			"user": {
				"images":    {"avatars", "uploads"},
				"audio":     {},
				"documents": {},
			},
		},
		MIME:     []string{"image/png", "image/jpeg", "application/json"},
		MaxBytes: DefaultMaxBytes,
	}
}

// Load reads a YAML policy file. Omitted mime_types and max_bytes keep the
// default values; scopes must be declared.
func Load(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read asset policy: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Policy{}, fmt.Errorf("parse asset policy %s: %w", path, err)
	}
	if len(p.Scopes) == 0 {
		return Policy{}, fmt.Errorf("asset policy %s declares no scopes", path)
	}
	def := Default()
	if len(p.MIME) == 0 {
		p.MIME = def.MIME
	}
	if p.MaxBytes <= 0 {
		p.MaxBytes = def.MaxBytes
	}
	normalized := make(map[string]map[string][]string, len(p.Scopes))
	for scope, types := range p.Scopes {
		m := make(map[string][]string, len(types))
		for t, cats := range types {
			m[NormalizeType(t)] = cats
		}
		normalized[strings.ToLower(scope)] = m
	}
	p.Scopes = normalized
	return p, nil
}

// Check validates the path segments of an upload and returns the
// normalized type.
func (p Policy) Check(scope, typ, category string) (string, error) {
	types, ok := p.Scopes[scope]
	if !ok {
		return "", &ValidationError{Segment: SegmentScope, Value: scope, Allowed: sortedKeys(p.Scopes)}
	}
	norm := NormalizeType(typ)
	cats, ok := types[norm]
	if !ok {
		return "", &ValidationError{Segment: SegmentType, Value: typ, Allowed: sortedKeys(types)}
	}
	if !plainSegment(category) {
		return "", &ValidationError{Segment: SegmentCategory, Value: category, Allowed: cats}
	}
	if len(cats) == 0 {
		return norm, nil
	}
	for _, c := range cats {
		if c == category {
			return norm, nil
		}
	}
	return "", &ValidationError{Segment: SegmentCategory, Value: category, Allowed: cats}
}

// plainSegment reports whether s names exactly one directory level, so the
// stored key keeps the category the row records.
func plainSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func (p Policy) CheckMIME(mime string) error {
	base := strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	for _, m := range p.MIME {
		if strings.EqualFold(m, base) {
			return nil
		}
	}
	return &ValidationError{Segment: SegmentMIME, Value: mime, Allowed: p.MIME}
}

func (p Policy) Limit() int64 {
	if p.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return p.MaxBytes
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
