package profiles

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/common"
)

//go:embed profiles.yaml
var embeddedProfiles []byte

// Field is a single-line header field: one regex with exactly one capture group.
type Field struct {
	Name    string
	Pattern *regexp.Regexp
}

// Span is a multi-line header field delimited by a start marker and an optional end marker.
type Span struct {
	Name  string
	Start *regexp.Regexp
	End   *regexp.Regexp // nil: span runs to end of text
}

// Profile is the set of extraction rules for one vendor layout.
type Profile struct {
	Layout     constants.Layout
	Indicators []*regexp.Regexp
	Fields     []Field
	Spans      []Span
}

// Fallback holds the line heuristics used when a page yields no structured table.
type Fallback struct {
	HeaderKeywords  []string // lowercase
	ProductKeywords []string // lowercase
	RowPattern      *regexp.Regexp
}

// Registry is the immutable, ordered set of layout profiles. Order is classification priority.
type Registry struct {
	profiles []*Profile
	byLayout map[constants.Layout]*Profile
	fallback Fallback
}

var defaultFallback = fileFallback{
	HeaderKeywords:  []string{"description", "qty", "hsn", "fsn", "unit price", "total"},
	ProductKeywords: []string{"iphone", "headset", "bag", "award"},
	RowPattern:      `^\d+\s`,
}

type fileField struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type fileSpan struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type fileLayout struct {
	Layout     string      `yaml:"layout"`
	Indicators []string    `yaml:"indicators"`
	Fields     []fileField `yaml:"fields"`
	Spans      []fileSpan  `yaml:"spans"`
}

type fileFallback struct {
	HeaderKeywords  []string `yaml:"header_keywords"`
	ProductKeywords []string `yaml:"product_keywords"`
	RowPattern      string   `yaml:"row_pattern"`
}

type profilesFile struct {
	Layouts  []fileLayout  `yaml:"layouts"`
	Fallback *fileFallback `yaml:"fallback"`
}

// Default returns the registry built from the embedded profiles.
func Default() (*Registry, error) {
	return Load(embeddedProfiles)
}

// LoadFile reads a profiles YAML file from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "read profiles file", err)
	}
	return Load(data)
}

// Load validates a profiles YAML document and compiles it into a Registry.
func Load(data []byte) (*Registry, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, common.NewAppError(common.CodeConfig, "parse profiles", err)
	}
	if err := ValidateAgainstSchema(raw); err != nil {
		return nil, common.NewAppError(common.CodeConfig, "validate profiles", err)
	}

	var pf profilesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, common.NewAppError(common.CodeConfig, "decode profiles", err)
	}

	reg := &Registry{byLayout: make(map[constants.Layout]*Profile, len(pf.Layouts))}
	for _, fl := range pf.Layouts {
		p, err := compileLayout(fl)
		if err != nil {
			return nil, common.NewAppError(common.CodeConfig, "compile profiles", err)
		}
		if _, dup := reg.byLayout[p.Layout]; dup {
			return nil, common.NewAppError(common.CodeConfig, fmt.Sprintf("duplicate layout %q", p.Layout), common.ErrInvalidInput)
		}
		reg.profiles = append(reg.profiles, p)
		reg.byLayout[p.Layout] = p
	}

	fb := defaultFallback
	if pf.Fallback != nil {
		if len(pf.Fallback.HeaderKeywords) > 0 {
			fb.HeaderKeywords = pf.Fallback.HeaderKeywords
		}
		if pf.Fallback.ProductKeywords != nil {
			fb.ProductKeywords = pf.Fallback.ProductKeywords
		}
		if pf.Fallback.RowPattern != "" {
			fb.RowPattern = pf.Fallback.RowPattern
		}
	}
	rowRe, err := regexp.Compile(fb.RowPattern)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "compile fallback row_pattern", err)
	}
	reg.fallback = Fallback{
		HeaderKeywords:  lowerAll(fb.HeaderKeywords),
		ProductKeywords: lowerAll(fb.ProductKeywords),
		RowPattern:      rowRe,
	}
	return reg, nil
}

func compileLayout(fl fileLayout) (*Profile, error) {
	layout, ok := constants.ParseLayout(fl.Layout)
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", fl.Layout)
	}
	p := &Profile{Layout: layout}

	for _, ind := range fl.Indicators {
		re, err := regexp.Compile("(?i)" + ind)
		if err != nil {
			return nil, fmt.Errorf("%s indicator %q: %w", layout, ind, err)
		}
		p.Indicators = append(p.Indicators, re)
	}

	for _, f := range fl.Fields {
		re, err := regexp.Compile("(?i)" + f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s field %q: %w", layout, f.Name, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("%s field %q: pattern must have exactly one capture group, has %d", layout, f.Name, re.NumSubexp())
		}
		p.Fields = append(p.Fields, Field{Name: f.Name, Pattern: re})
	}

	for _, s := range fl.Spans {
		start, err := regexp.Compile(s.Start)
		if err != nil {
			return nil, fmt.Errorf("%s span %q start: %w", layout, s.Name, err)
		}
		span := Span{Name: s.Name, Start: start}
		if s.End != "" {
			if span.End, err = regexp.Compile(s.End); err != nil {
				return nil, fmt.Errorf("%s span %q end: %w", layout, s.Name, err)
			}
		}
		p.Spans = append(p.Spans, span)
	}
	return p, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

// Profiles returns the profiles in priority order.
func (r *Registry) Profiles() []*Profile {
	return append([]*Profile(nil), r.profiles...)
}

// Lookup returns the profile for layout.
func (r *Registry) Lookup(layout constants.Layout) (*Profile, bool) {
	p, ok := r.byLayout[layout]
	return p, ok
}

func (r *Registry) Fallback() Fallback {
	return r.fallback
}
