package serials

import (
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.UnixMilli(1700000000123)
}

func TestGenerate(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock), WithRand(rand.New(rand.NewPCG(1, 2))))

	t.Run("concatenates code, millis, index and suffix", func(t *testing.T) {
		serial := g.Generate("sofa-01", 7)
		assert.Regexp(t, regexp.MustCompile(`^SOFA-011700000000123007[0-9A-Z]{4}$`), serial)
	})

	t.Run("empty code falls back to SN", func(t *testing.T) {
		serial := g.Generate("  ", 1)
		assert.Regexp(t, regexp.MustCompile(`^SN1700000000123001[0-9A-Z]{4}$`), serial)
	})
}

func TestGenerateN(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock))

	serials := g.GenerateN("TBL", 3)
	require.Len(t, serials, 3)
	for i, s := range serials {
		assert.Len(t, s, len("TBL")+13+3+4)
		assert.Contains(t, s, "TBL1700000000123")
		assert.Equal(t, []string{"001", "002", "003"}[i], s[16:19])
	}

	assert.Nil(t, g.GenerateN("TBL", 0))
	assert.Nil(t, g.GenerateN("TBL", -2))
}
