package workload

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator_Generate(t *testing.T) {
	gen := &UUIDv7Generator{}

	token := gen.Generate()

	parsed, err := uuid.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := &UUIDv7Generator{}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := gen.Generate()
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func TestUUIDv7Generator_Concurrent(t *testing.T) {
	gen := &UUIDv7Generator{}

	const goroutines = 10
	const perGoroutine = 20

	var wg sync.WaitGroup
	tokens := make(chan string, goroutines*perGoroutine)

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				tokens <- gen.Generate()
			}
		}()
	}

	wg.Wait()
	close(tokens)

	seen := make(map[string]bool)
	for token := range tokens {
		assert.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestFixedGenerator_Generate(t *testing.T) {
	gen := NewFixedGenerator("token-a", "token-b", "token-c")

	assert.Equal(t, "token-a", gen.Generate())
	assert.Equal(t, "token-b", gen.Generate())
	assert.Equal(t, "token-c", gen.Generate())
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	gen := NewFixedGenerator("only")

	assert.Equal(t, "only", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestFixedGenerator_Empty(t *testing.T) {
	gen := NewFixedGenerator()

	assert.Panics(t, func() { gen.Generate() })
}
