package pinyin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotate(t *testing.T) {
	a := NewAnnotator()

	tests := []struct {
		text string
		want string
	}{
		{"你好", "nǐ hǎo"},
		{"中国", "zhōng guó"},
		{"猫", "māo"},
		{"你 好", "nǐ hǎo"},
		{"打电话", "dǎ diàn huà"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Annotate(tt.text), tt.text)
	}
}

func TestAnnotatePassesThroughNonChinese(t *testing.T) {
	a := NewAnnotator()
	assert.Equal(t, "wifi", a.Annotate("wifi"))
	assert.Equal(t, "", a.Annotate(""))
}

func TestSyllableTone(t *testing.T) {
	assert.Equal(t, Tone1, SyllableTone("zhōng"))
	assert.Equal(t, Tone2, SyllableTone("guó"))
	assert.Equal(t, Tone3, SyllableTone("hǎo"))
	assert.Equal(t, Tone4, SyllableTone("huà"))
	assert.Equal(t, Tone5, SyllableTone("ma"))
	assert.Equal(t, ToneUnknown, SyllableTone(""))
}
