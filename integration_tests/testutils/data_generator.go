package testutils

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator produces unique league fixtures from a seeded faker.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
	used  map[string]bool
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
		used:  map[string]bool{},
	}
}

// Seed returns the seed, for reproducing a failing run.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

func (g *TestDataGenerator) unique(next func() string) string {
	for i := 0; ; i++ {
		v := next()
		if i > 20 {
			v = fmt.Sprintf("%s%d", v, i)
		}
		if !g.used[v] {
			g.used[v] = true
			return v
		}
	}
}

// RiderNames returns n distinct "First Last" rider names.
func (g *TestDataGenerator) RiderNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = g.unique(func() string {
			return g.faker.FirstName() + " " + g.faker.LastName()
		})
	}
	return out
}

// Username returns a distinct handle made of letters, digits and
// underscores, between 3 and 32 characters.
func (g *TestDataGenerator) Username() string {
	return g.unique(func() string {
		var b strings.Builder
		for _, r := range g.faker.Username() {
			if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
				b.WriteRune(r)
			}
		}
		name := b.String()
		if len(name) < 3 {
			name += g.faker.Numerify("###")
		}
		if len(name) > 32 {
			name = name[:32]
		}
		return name
	})
}

// Email returns a distinct address.
func (g *TestDataGenerator) Email() string {
	return g.unique(g.faker.Email)
}

// Password returns a password long enough for registration.
func (g *TestDataGenerator) Password() string {
	return g.faker.Password(true, true, true, false, false, 14)
}
