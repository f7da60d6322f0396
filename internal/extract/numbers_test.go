package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"15 178 979 habitants (2022)", 15178979, true},
		{"15 178 979", 15178979, true},
		{"environ 10.500.000 locuteurs", 10500000, true},
		{"1,250,000", 1250000, true},
		{"12345 personnes", 12345, true},
		{"(2022)", 2022, true},
		{"~ 3 millions", 3, true},
		{"inconnue", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := FirstNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYears(t *testing.T) {
	assert.Equal(t, []int{1220, 1450}, Years("vers 1220–1450"))
	assert.Equal(t, []int{-300, 200}, Years("de 300 av. J.-C. à 200"))
	assert.Equal(t, []int{-1000}, Years("1000 BCE"))
	assert.Empty(t, Years("XIe – XVe siècle"))
}

func TestFirstYear(t *testing.T) {
	y, ok := FirstYear("fondé en 1430, disparu en 1760")
	assert.True(t, ok)
	assert.Equal(t, 1430, y)

	_, ok = FirstYear("période médiévale")
	assert.False(t, ok)
}
