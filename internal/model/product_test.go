package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageList(t *testing.T) {
	cases := []struct {
		name   string
		images string
		want   []string
	}{
		{"empty", "", []string{}},
		{"json array", `["a.png","b.png"]`, []string{"a.png", "b.png"}},
		{"json with blanks", `["a.png","","  "]`, []string{"a.png"}},
		{"comma separated", "a.png, b.png,c.png", []string{"a.png", "b.png", "c.png"}},
		{"single url", "a.png", []string{"a.png"}},
		{"malformed json", `["a.png"`, []string{}},
		{"trailing commas", "a.png,,", []string{"a.png"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Images: tc.images}
			assert.Equal(t, tc.want, p.ImageList())
		})
	}
}

func TestParseDetailBlankAndMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{bad json", "null"} {
		p := Product{Detail: raw}
		d := p.ParseDetail()
		assert.NotNil(t, d.Attributes, raw)
		assert.Empty(t, d.Attributes, raw)
		assert.NotNil(t, d.Images, raw)
		assert.Empty(t, d.Images, raw)
		assert.Empty(t, d.Specs, raw)
		assert.Empty(t, d.Skus, raw)
	}
}

func TestParseDetailPartialSections(t *testing.T) {
	p := Product{Detail: `{"images":["x.png"]}`}
	d := p.ParseDetail()
	assert.Equal(t, []string{"x.png"}, d.Images)
	assert.Empty(t, d.Attributes)
	assert.Empty(t, d.Specs)
	assert.Empty(t, d.Skus)
}

func TestDetailJSONRoundTrip(t *testing.T) {
	req := CreateProductRequest{
		DetailImages: []string{"x.png"},
		Specs:        []any{map[string]any{"name": "规格"}},
	}
	raw := req.DetailJSON()
	assert.NotEmpty(t, raw)

	p := Product{Detail: raw}
	d := p.ParseDetail()
	assert.Equal(t, []string{"x.png"}, d.Images)
	assert.Len(t, d.Specs, 1)
	assert.Empty(t, d.Attributes)
}

func TestDetailJSONEmptyWhenAllSectionsEmpty(t *testing.T) {
	req := CreateProductRequest{}
	assert.Empty(t, req.DetailJSON())
}

func TestUpdateRequestHasDetailSections(t *testing.T) {
	assert.False(t, (&UpdateProductRequest{}).HasDetailSections())
	assert.True(t, (&UpdateProductRequest{DetailImages: []string{}}).HasDetailSections())
	assert.True(t, (&UpdateProductRequest{Specs: []any{"x"}}).HasDetailSections())
}
