package utils

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUtils_HexToRGBA(t *testing.T) {
	assert := assert.New(t)

	testCases := []struct {
		hex  string
		want color.NRGBA
	}{
		{"#ff0000", color.NRGBA{R: 0xff, A: 0xff}},
		{"00ff00", color.NRGBA{G: 0xff, A: 0xff}},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{"#0000ff80", color.NRGBA{B: 0xff, A: 0x80}},
	}
	for _, tc := range testCases {
		got, err := HexToRGBA(tc.hex)
		assert.NoError(err, tc.hex)
		assert.Equal(tc.want, got, tc.hex)
	}

	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		_, err := HexToRGBA(bad)
		assert.Error(err, bad)
	}
}

func TestUtils_FormatTime(t *testing.T) {
	assert.Equal(t, "1.50s", FormatTime(1500*time.Millisecond))
	assert.Equal(t, "2m 5.00s", FormatTime(2*time.Minute+5*time.Second))
	assert.Equal(t, "1h 1m 1.00s", FormatTime(time.Hour+time.Minute+time.Second))
}

func TestUtils_DecorateText(t *testing.T) {
	assert.Equal(t, ErrorColor+"fail"+DefaultColor, DecorateText("fail", ErrorMessage))
	assert.Equal(t, "plain", DecorateText("plain", MessageType(99)))
}

func TestUtils_Math(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(2, Min(2, 3))
	assert.Equal(2, Min(3, 2))
	assert.Equal(3.5, Max(1.0, 3.5))
	assert.Equal(4, Abs(-4))
	assert.Equal(2.5, Abs(-2.5))
	assert.Equal(2, Clamp(1, 2, 99))
	assert.Equal(99, Clamp(120, 2, 99))
	assert.Equal(0.5, Clamp(0.5, 0.0, 1.0))
}
