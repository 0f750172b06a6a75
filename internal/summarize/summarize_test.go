package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Lllllllleong/idpflow/internal/invocation"
	"github.com/Lllllllleong/idpflow/internal/llm/mocks"
	"github.com/Lllllllleong/idpflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testCtx() context.Context {
	return invocation.WithID(context.Background(), "exec-7")
}

func TestSummarizeEmptyTextSkipsModel(t *testing.T) {
	gen := new(mocks.MockGenerator)
	got := New(gen).Summarize(testCtx(), "", models.CategoryInvoice)

	assert.Equal(t, models.Summary{
		Text:        "No content to summarize",
		KeyPoints:   []string{},
		Category:    models.CategoryInvoice,
		GeneratedAt: "exec-7",
	}, got)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestSummarizeReplies(t *testing.T) {
	long := strings.Repeat("x", 600)

	tests := []struct {
		name  string
		reply string
		want  models.Summary
	}{
		{
			name:  "well formed",
			reply: `{"text":"Invoice from ACME for $40.","keyPoints":["Vendor: ACME","Total: $40.00"],"category":"Invoice"}`,
			want: models.Summary{
				Text:      "Invoice from ACME for $40.",
				KeyPoints: []string{"Vendor: ACME", "Total: $40.00"},
				Category:  models.CategoryInvoice,
			},
		},
		{
			name:  "prose around object",
			reply: "Here you go:\n{\"text\":\"Short.\",\"keyPoints\":[\"a\"]}\nThanks",
			want:  models.Summary{Text: "Short.", KeyPoints: []string{"a"}, Category: models.CategoryInvoice},
		},
		{
			name:  "missing fields filled",
			reply: `{}`,
			want:  models.Summary{Text: "Summary could not be generated", KeyPoints: []string{}, Category: models.CategoryInvoice},
		},
		{
			name:  "single string key point",
			reply: `{"text":"t","keyPoints":"only one"}`,
			want:  models.Summary{Text: "t", KeyPoints: []string{"only one"}, Category: models.CategoryInvoice},
		},
		{
			name:  "non string key points dropped",
			reply: `{"text":"t","keyPoints":["a", 3, null, "b"]}`,
			want:  models.Summary{Text: "t", KeyPoints: []string{"a", "b"}, Category: models.CategoryInvoice},
		},
		{
			name:  "unknown category keeps stage category",
			reply: `{"text":"t","keyPoints":[],"category":"Receipt"}`,
			want:  models.Summary{Text: "t", KeyPoints: []string{}, Category: models.CategoryInvoice},
		},
		{
			name:  "plain text reply",
			reply: "This is an invoice from ACME.",
			want: models.Summary{
				Text:      "This is an invoice from ACME.",
				KeyPoints: []string{"This is an invoice from ACME."},
				Category:  models.CategoryInvoice,
			},
		},
		{
			name:  "long plain text reply truncated",
			reply: long,
			want: models.Summary{
				Text:      strings.Repeat("x", 500) + "...",
				KeyPoints: []string{strings.Repeat("x", 200) + "..."},
				Category:  models.CategoryInvoice,
			},
		},
		{
			name:  "empty reply",
			reply: "   ",
			want:  models.Summary{Text: "Summary unavailable", KeyPoints: []string{}, Category: models.CategoryInvoice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(mocks.MockGenerator)
			gen.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, nil)

			got := New(gen).Summarize(testCtx(), "INVOICE #123", models.CategoryInvoice)
			tt.want.GeneratedAt = "exec-7"
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeModelError(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("deadline exceeded"))

	got := New(gen).Summarize(testCtx(), "text", models.CategoryW2)
	assert.Equal(t, models.Summary{
		Text:        "Summarization failed: deadline exceeded",
		KeyPoints:   []string{},
		Category:    models.CategoryW2,
		GeneratedAt: "exec-7",
	}, got)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(strings.Repeat("a", MaxInputRunes+10), models.CategoryW2)

	assert.Contains(t, prompt, "summary of the following W2 document")
	assert.Contains(t, prompt, "Focus on employer, employee, tax year, and key tax amounts.")
	assert.Contains(t, prompt, `"category": "W2"`)
	assert.NotContains(t, prompt, strings.Repeat("a", MaxInputRunes+1))
}
