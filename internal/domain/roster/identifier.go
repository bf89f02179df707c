package roster

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	DefaultMaxIdentifierAttempts = 20

	FakeAddressDomain = "noemail.invalid"
	fakeLocalPartLen  = 10
)

// IdentifierGenerator produces account identifiers that the oracle reports as
// free. It does not reserve them: two generators racing on the same base can
// both return the same candidate, and the store's unique constraint decides.
type IdentifierGenerator struct {
	oracle      ExistenceOracle
	maxAttempts int
	intn        func(n int) int
}

type GeneratorOption func(*IdentifierGenerator)

func WithMaxAttempts(n int) GeneratorOption {
	return func(g *IdentifierGenerator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithDigitSource replaces the random source; intn must return a value in [0, n).
func WithDigitSource(intn func(n int) int) GeneratorOption {
	return func(g *IdentifierGenerator) {
		if intn != nil {
			g.intn = intn
		}
	}
}

func NewIdentifierGenerator(oracle ExistenceOracle, opts ...GeneratorOption) *IdentifierGenerator {
	g := &IdentifierGenerator{
		oracle:      oracle,
		maxAttempts: DefaultMaxIdentifierAttempts,
		intn:        rand.IntN,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// UniqueUsername returns the first free candidate, appending one random digit
// to the last name on every collision.
func (g *IdentifierGenerator) UniqueUsername(ctx context.Context, firstName, lastName string) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := NormalizeIdentifierBase(firstName, lastName)

		exists, err := g.oracle.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}

		lastName += strconv.Itoa(g.intn(10))
	}

	return "", fmt.Errorf("%w: username for %q %q after %d attempts", ErrIdentifierSpaceExhausted, firstName, lastName, g.maxAttempts)
}

// UniqueFakeAddress returns a placeholder contact address at a non-routable
// domain, for guardians imported without one.
func (g *IdentifierGenerator) UniqueFakeAddress(ctx context.Context) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		var local strings.Builder
		for i := 0; i < fakeLocalPartLen; i++ {
			local.WriteByte(byte('a' + g.intn(26)))
		}
		candidate := local.String() + "@" + FakeAddressDomain

		exists, err := g.oracle.ContactExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check contact %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: fake address after %d attempts", ErrIdentifierSpaceExhausted, g.maxAttempts)
}
