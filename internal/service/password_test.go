package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordAlphabetExcludesAmbiguousCharacters(t *testing.T) {
	assert.Len(t, passwordAlphabet, 58)
	for _, c := range "l1o0" {
		assert.False(t, strings.ContainsRune(passwordAlphabet, c), "alphabet contains %q", c)
	}
	assert.True(t, strings.ContainsRune(passwordAlphabet, 'O'))
}

func TestPasswordGeneratorShape(t *testing.T) {
	g := NewPasswordGenerator(0)
	for i := 0; i < 200; i++ {
		pw := g.Generate("AL", "")
		require.Len(t, pw, 8)
		require.True(t, strings.HasPrefix(pw, "AL"))
		for _, c := range pw[2:] {
			require.True(t, strings.ContainsRune(passwordAlphabet, c))
		}
	}
	staff := g.Generate("", "PCT")
	assert.Len(t, staff, 9)
	assert.True(t, strings.HasSuffix(staff, "PCT"))
}

func TestPasswordGeneratorSeeded(t *testing.T) {
	a := NewPasswordGenerator(42)
	b := NewPasswordGenerator(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Generate("", ""), b.Generate("", ""))
	}
}

func TestPasswordGeneratorCoversAlphabet(t *testing.T) {
	g := NewPasswordGenerator(7)
	seen := make(map[rune]int)
	for i := 0; i < 5000; i++ {
		for _, c := range g.Generate("", "") {
			seen[c]++
		}
	}
	assert.Len(t, seen, len(passwordAlphabet))
	for c, n := range seen {
		// 30000 draws over 58 symbols; expect ~517 each.
		assert.Greater(t, n, 350, "symbol %q drawn too rarely", c)
		assert.Less(t, n, 700, "symbol %q drawn too often", c)
	}
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "A", Initial("ana"))
	assert.Equal(t, "É", Initial("élodie"))
	assert.Equal(t, "X", Initial(""))
	assert.Equal(t, "O", Initial("O'Neil"))
}
