package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type faq struct {
	Question, Answer string
}

func faqFields(f faq) []string { return []string{f.Question, f.Answer} }

var faqs = []faq{
	{"How do I list my firm?", "Sign up and contact support."},
	{"Is it free?", "Listing is FREE for small firms."},
	{"Where are you based?", "Lagos."},
}

func TestApply_EmptyQueryIsIdentity(t *testing.T) {
	got := Apply(faqs, "", faqFields)
	assert.Equal(t, faqs, got)
	assert.Same(t, &faqs[0], &got[0], "empty query must return the input slice")
}

func TestApply_CaseInsensitiveSubstring(t *testing.T) {
	got := Apply(faqs, "free", faqFields)
	assert.Equal(t, []faq{faqs[1]}, got)

	got = Apply(faqs, "FIRM", faqFields)
	assert.Equal(t, []faq{faqs[0], faqs[1]}, got)
}

func TestApply_NoTokenization(t *testing.T) {
	assert.Empty(t, Apply(faqs, "firm free", faqFields))
	assert.Len(t, Apply(faqs, "for small", faqFields), 1)
}

func TestApply_Idempotent(t *testing.T) {
	for _, q := range []string{"", "i", "firm", "lagos", "zzz"} {
		once := Apply(faqs, q, faqFields)
		twice := Apply(once, q, faqFields)
		assert.Equal(t, once, twice, q)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := append([]faq(nil), faqs...)
	Apply(in, "based", faqFields)
	assert.Equal(t, faqs, in)
}

func TestMatchesEmptyFields(t *testing.T) {
	assert.False(t, Matches(nil, "x"))
	assert.True(t, Matches([]string{""}, ""))
}
