package pattern

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engines = []Engine{EngineRE2, EngineRegexp2}

func TestCompile_CaseInsensitive(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			m, err := Compile("hello", engine)
			require.NoError(t, err)

			assert.True(t, m.MatchString("Hello"))
			assert.True(t, m.MatchString("HELLO again"))
			assert.True(t, m.MatchString("say hElLo"))
			assert.False(t, m.MatchString("world"))
			assert.Equal(t, "hello", m.String())
		})
	}
}

func TestCompile_SpecialCharactersArePatternSyntax(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			dot, err := Compile("a.c", engine)
			require.NoError(t, err)
			assert.True(t, dot.MatchString("abc"), "'.' must match any character")
			assert.True(t, dot.MatchString("a.c"))

			star, err := Compile(".*", engine)
			require.NoError(t, err)
			assert.True(t, star.MatchString("anything at all"))
			assert.True(t, star.MatchString(""), "'.*' matches the empty line too")

			plus, err := Compile("1+1", engine)
			require.NoError(t, err)
			assert.False(t, plus.MatchString("1+1"), "'+' is a quantifier, not a literal")
			assert.True(t, plus.MatchString("11"))
		})
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			_, err := Compile("([unclosed", engine)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid pattern")
		})
	}
}

func TestCompile_LookaroundOnlyInRegexp2(t *testing.T) {
	_, err := Compile(`foo(?=bar)`, EngineRE2)
	require.Error(t, err)

	m, err := Compile(`foo(?=bar)`, EngineRegexp2)
	require.NoError(t, err)
	assert.True(t, m.MatchString("FOOBAR"))
	assert.False(t, m.MatchString("foobaz"))
}

func TestCompile_UnknownEngine(t *testing.T) {
	_, err := Compile("x", Engine("pcre"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEngine))
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in      string
		want    Engine
		wantErr bool
	}{
		{"", EngineRE2, false},
		{"re2", EngineRE2, false},
		{" RegExp2 ", EngineRegexp2, false},
		{"pcre", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEngine(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownEngine, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFindAllStringIndex(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			m, err := Compile("ab", engine)
			require.NoError(t, err)

			assert.Equal(t, [][2]int{{0, 2}, {4, 6}}, m.FindAllStringIndex("AB--ab"))
			assert.Nil(t, m.FindAllStringIndex("nothing"))
		})
	}
}

func TestFindAllStringIndex_MultibyteOffsets(t *testing.T) {
	line := "héllo wörld hello"
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			m, err := Compile("hello", engine)
			require.NoError(t, err)

			locs := m.FindAllStringIndex(line)
			require.Len(t, locs, 1)
			assert.Equal(t, "hello", line[locs[0][0]:locs[0][1]])
		})
	}
}

func TestRegexp2_BacktrackingGivesUp(t *testing.T) {
	m, err := Compile("(a+)+$", EngineRegexp2)
	require.NoError(t, err)

	line := strings.Repeat("a", 30) + "!"
	type result struct {
		matched bool
		locs    [][2]int
	}
	done := make(chan result, 1)
	go func() {
		done <- result{matched: m.MatchString(line), locs: m.FindAllStringIndex(line)}
	}()

	select {
	case r := <-done:
		assert.False(t, r.matched)
		assert.Nil(t, r.locs)
	case <-time.After(10 * MatchTimeout):
		t.Fatal("regexp2 match did not time out")
	}
}
