package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehanshivam/visitingcard/internal/layout"
	"github.com/mehanshivam/visitingcard/internal/recognize"
)

func TestNewDocumentSplitsLines(t *testing.T) {
	doc := NewDocument(&recognize.RecognitionResult{
		RawText:           "Jane Lee\n\n  Director  \nAcme Corp\n",
		OverallConfidence: 88,
	})

	require.NotNil(t, doc)
	assert.Equal(t, []string{"Jane Lee", "Director", "Acme Corp"}, doc.Lines)
	assert.Equal(t, 88.0, doc.BackendConfidence)
	assert.False(t, doc.HasLayout())
}

func TestNewDocumentWithTokens(t *testing.T) {
	doc := NewDocument(&recognize.RecognitionResult{
		RawText: "Jane Lee\nDirector",
		Tokens: []recognize.Token{
			{Text: "Jane", Box: recognize.BoundingBox{X0: 10, Y0: 10, X1: 70, Y1: 40}, Confidence: 95},
			{Text: "Lee", Box: recognize.BoundingBox{X0: 80, Y0: 10, X1: 120, Y1: 40}, Confidence: 93},
			{Text: "Director", Box: recognize.BoundingBox{X0: 10, Y0: 50, X1: 100, Y1: 65}, Confidence: 90},
		},
	})

	require.True(t, doc.HasLayout())
	assert.Contains(t, doc.Layout.RegionText(layout.BandTop), "Jane")
}

func TestRegionTextsWithoutLayout(t *testing.T) {
	doc := NewDocument(&recognize.RecognitionResult{RawText: "Acme Corp\n555-123-4567"})

	require.False(t, doc.HasLayout())
	assert.Equal(t, doc.Lines, doc.RegionTexts())
}

func TestRegionTextsWithLayout(t *testing.T) {
	doc := NewDocument(&recognize.RecognitionResult{
		RawText: "Jane Lee\nDirector\njane@acme.com",
		Tokens: []recognize.Token{
			{Text: "Jane", Box: recognize.BoundingBox{X0: 10, Y0: 0, X1: 70, Y1: 25}, Confidence: 95},
			{Text: "Director", Box: recognize.BoundingBox{X0: 10, Y0: 40, X1: 100, Y1: 55}, Confidence: 90},
			{Text: "jane@acme.com", Box: recognize.BoundingBox{X0: 10, Y0: 75, X1: 140, Y1: 88}, Confidence: 85},
		},
	})

	require.True(t, doc.HasLayout())
	regions := doc.RegionTexts()
	require.Len(t, regions, 3)
	assert.Contains(t, regions[0], "Jane")
	assert.Contains(t, regions[1], "Director")
	assert.Contains(t, regions[2], "jane@acme.com")
}
