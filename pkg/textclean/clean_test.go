package textclean

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean_BasicParagraphBreak(t *testing.T) {
	in := []byte("1234567890--- Hello   world\n\n\n\nfoo\tbar ---...")
	got := Clean(in, false)

	require.NotNil(t, got)
	assert.Equal(t, "Hello world\n\nfoo bar", string(got))
	assert.Len(t, got, 20)
}

func TestClean_RejectsReferencePage(t *testing.T) {
	var body string

	body = "References\n"
	for i := 0; i < 10; i++ {
		body += "Smith, J. et al. (2020). Some paper title. https://doi.org/10.1234/abcd\n"
	}

	got := Clean([]byte(body), false)
	assert.Nil(t, got)
}

func TestClean_KeepsOrdinaryBodyText(t *testing.T) {
	body := "This is an ordinary paragraph of body text that discusses a topic\n" +
		"at some length across a couple of lines, with no bibliographic\n" +
		"signals anywhere in it at all, so it must survive classification.\n"

	got := Clean([]byte(body), false)
	require.NotNil(t, got)
	assert.Contains(t, string(got), "ordinary paragraph")
}

func TestClean_InvalidUTF8IsDropped(t *testing.T) {
	in := []byte{'A', 0xFF, 0xFE, 'B', 0x80, 'C'}

	got := Clean(in, false)
	require.NotNil(t, got)
	assert.True(t, utf8.Valid(got))
	assert.Equal(t, "ABC", string(got))
}

func TestClean_RemovesURLsWhenRequested(t *testing.T) {
	in := []byte("See (http://example.com/path?q=1) for details and more context text padding out the line")

	got := Clean(in, true)
	require.NotNil(t, got)
	assert.NotContains(t, string(got), "http://")
}

func TestClean_KeepsURLsWhenNotRequested(t *testing.T) {
	in := []byte("See http://example.com/path for details and more context text padding the line")

	got := Clean(in, false)
	require.NotNil(t, got)
	assert.Contains(t, string(got), "http://example.com/path")
}

func TestClean_CollapsesLongDashRuns(t *testing.T) {
	in := []byte("above text ---------------------- below text that is long enough to survive")

	got := Clean(in, false)
	require.NotNil(t, got)
	assert.Contains(t, string(got), "above text")
	assert.Contains(t, string(got), "below text")
	assert.NotContains(t, string(got), "----------")
}

func TestClean_DropsLonePunctuation(t *testing.T) {
	in := []byte("left side | right side padded with enough text to stay above the minimum length")

	got := Clean(in, false)
	require.NotNil(t, got)
	assert.NotContains(t, string(got), " | ")
}

func TestClean_EmptyAndTooShortInputsReturnNil(t *testing.T) {
	assert.Nil(t, Clean([]byte(""), false))
	assert.Nil(t, Clean([]byte("  \n\t "), false))
	assert.Nil(t, Clean([]byte("ab"), false))
}

func TestClean_Idempotent(t *testing.T) {
	in := []byte("A normal looking paragraph   with irregular   whitespace\n\n\nand a second paragraph of text.")

	first := Clean(in, false)
	require.NotNil(t, first)

	second := Clean(first, false)
	require.NotNil(t, second)

	assert.Equal(t, string(first), string(second))
}

func TestClean_AlwaysValidUTF8(t *testing.T) {
	inputs := [][]byte{
		{0xC0, 0x80, 'x', 'y', 'z', ' ', 'p', 'a', 'd'},
		{0xE0, 0x80, 0x80, 'a', 'b', 'c', 'd', 'e', 'f'},
		{0xED, 0xA0, 0x80, 'g', 'h', 'i', 'j', 'k'},
		{0xF5, 0x80, 0x80, 0x80, 'l', 'm', 'n'},
	}

	for _, in := range inputs {
		got := Clean(in, false)
		if got != nil {
			assert.True(t, utf8.Valid(got))
		}
	}
}
