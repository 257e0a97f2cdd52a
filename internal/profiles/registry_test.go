package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dnyaneshwarigund12/Invoice-extraction/constants"
	"github.com/Dnyaneshwarigund12/Invoice-extraction/internal/common"
)

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	profiles := reg.Profiles()
	require.Len(t, profiles, 2)
	assert.Equal(t, constants.Amazon, profiles[0].Layout, "Amazon has priority")
	assert.Equal(t, constants.Flipkart, profiles[1].Layout)

	amazon, ok := reg.Lookup(constants.Amazon)
	require.True(t, ok)
	assert.Len(t, amazon.Indicators, 6)
	assert.Equal(t, "Order Number", amazon.Fields[0].Name)
	assert.Equal(t, "Sold By", amazon.Spans[0].Name)
	assert.NotNil(t, amazon.Spans[0].End)

	_, ok = reg.Lookup(constants.Unknown)
	assert.False(t, ok)

	fb := reg.Fallback()
	assert.Contains(t, fb.HeaderKeywords, "unit price")
	assert.Contains(t, fb.ProductKeywords, "iphone")
	assert.True(t, fb.RowPattern.MatchString("1 iPhone"))
}

func TestProfilesSliceIsACopy(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	got := reg.Profiles()
	got[0] = nil
	assert.NotNil(t, reg.Profiles()[0])
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
		check   func(*testing.T, *Registry)
	}{
		{
			name: "layout tag must match exactly",
			doc: `
layouts:
  - layout: flipkart
    indicators: ['FSN:']
`,
			wantErr: "profiles do not match schema",
		},
		{
			name: "span without end marker",
			doc: `
layouts:
  - layout: Flipkart
    indicators: ['FSN:']
    spans:
      - name: Notes
        start: 'Notes'
`,
			check: func(t *testing.T, r *Registry) {
				p, ok := r.Lookup(constants.Flipkart)
				require.True(t, ok)
				require.Len(t, p.Spans, 1)
				assert.Nil(t, p.Spans[0].End)
				assert.Equal(t, []string{"description", "qty", "hsn", "fsn", "unit price", "total"}, r.Fallback().HeaderKeywords)
			},
		},
		{
			name: "fallback override is lowercased",
			doc: `
layouts:
  - layout: Amazon
    indicators: ['amazon']
fallback:
  header_keywords: [Item, AMOUNT]
`,
			check: func(t *testing.T, r *Registry) {
				assert.Equal(t, []string{"item", "amount"}, r.Fallback().HeaderKeywords)
				assert.Equal(t, []string{"iphone", "headset", "bag", "award"}, r.Fallback().ProductKeywords)
			},
		},
		{
			name: "unknown property rejected",
			doc: `
layouts:
  - layout: Amazon
    indicators: ['amazon']
    colour: blue
`,
			wantErr: "profiles do not match schema",
		},
		{
			name: "no indicators rejected",
			doc: `
layouts:
  - layout: Amazon
    indicators: []
`,
			wantErr: "profiles do not match schema",
		},
		{
			name: "two capture groups rejected",
			doc: `
layouts:
  - layout: Amazon
    indicators: ['amazon']
    fields:
      - name: Order
        pattern: '(Order) (\d+)'
`,
			wantErr: "exactly one capture group",
		},
		{
			name: "bad regex rejected",
			doc: `
layouts:
  - layout: Amazon
    indicators: ['amazon(']
`,
			wantErr: "indicator",
		},
		{
			name: "duplicate layout rejected",
			doc: `
layouts:
  - layout: Amazon
    indicators: ['amazon']
  - layout: Amazon
    indicators: ['amzn']
`,
			wantErr: "duplicate layout",
		},
		{
			name:    "not yaml",
			doc:     "layouts: [",
			wantErr: "parse profiles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Load([]byte(tt.doc))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, common.CodeConfig, common.CodeOf(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, reg)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("does-not-exist.yaml")
	require.Error(t, err)
	assert.Equal(t, common.CodeConfig, common.CodeOf(err))
}
