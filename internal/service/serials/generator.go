// Package serials generates per-unit serial numbers for received goods.
package serials

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	base36       = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLength = 4
	fallbackCode = "SN"
)

// Generator builds serials of the form
// <product code><epoch millis><3-digit index><4 base-36 chars>.
// Uniqueness is not checked against stored serials.
type Generator struct {
	now  func() time.Time
	intN func(n int) int
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithRand overrides the random source used for the suffix.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.intN = r.IntN
		}
	}
}

// NewGenerator constructs a Generator backed by the wall clock and math/rand.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now, intN: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the serial for the index-th unit (1-based) of a product.
func (g *Generator) Generate(productCode string, index int) string {
	code := strings.ToUpper(strings.TrimSpace(productCode))
	if code == "" {
		code = fallbackCode
	}

	var suffix [suffixLength]byte
	for i := range suffix {
		suffix[i] = base36[g.intN(len(base36))]
	}

	return fmt.Sprintf("%s%d%03d%s", code, g.now().UnixMilli(), index, suffix[:])
}

// GenerateN returns n serials for a product, indexed from 1.
func (g *Generator) GenerateN(productCode string, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, g.Generate(productCode, i))
	}
	return out
}
