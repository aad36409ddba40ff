// Package pattern compiles user search terms into case-insensitive matchers.
//
// The search term is never escaped: characters such as '.', '*' or '(' keep
// their meaning in the selected engine's syntax.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Engine selects the regular expression implementation.
type Engine string

const (
	// EngineRE2 is Go's linear-time regexp package.
	EngineRE2 Engine = "re2"
	// EngineRegexp2 supports look-around and backreferences.
	EngineRegexp2 Engine = "regexp2"
)

// MatchTimeout bounds a single regexp2 match. Catastrophic backtracking on
// one line gives up instead of stalling its worker.
const MatchTimeout = time.Second

// ErrUnknownEngine is returned for engine names other than re2 and regexp2.
var ErrUnknownEngine = errors.New("unknown pattern engine")

// Matcher tests lines of text against a compiled pattern.
// Implementations are safe for concurrent use.
type Matcher interface {
	// MatchString reports whether line contains a match.
	MatchString(line string) bool
	// FindAllStringIndex returns the byte offsets of every non-overlapping match.
	FindAllStringIndex(line string) [][2]int
	// String returns the source pattern as given by the user.
	String() string
}

// ParseEngine validates an engine name. The empty string selects re2.
func ParseEngine(name string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(name))) {
	case "", EngineRE2:
		return EngineRE2, nil
	case EngineRegexp2:
		return EngineRegexp2, nil
	default:
		return "", fmt.Errorf("%w %q (want re2 or regexp2)", ErrUnknownEngine, name)
	}
}

// Compile builds a case-insensitive matcher for expr.
func Compile(expr string, engine Engine) (Matcher, error) {
	switch engine {
	case "", EngineRE2:
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
		}
		return &re2Matcher{src: expr, re: re}, nil
	case EngineRegexp2:
		re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
		}
		re.MatchTimeout = MatchTimeout
		return &regexp2Matcher{src: expr, re: re}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, engine)
	}
}

type re2Matcher struct {
	src string
	re  *regexp.Regexp
}

func (m *re2Matcher) MatchString(line string) bool { return m.re.MatchString(line) }

func (m *re2Matcher) FindAllStringIndex(line string) [][2]int {
	locs := m.re.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([][2]int, len(locs))
	for i, loc := range locs {
		out[i] = [2]int{loc[0], loc[1]}
	}
	return out
}

func (m *re2Matcher) String() string { return m.src }

type regexp2Matcher struct {
	src string
	re  *regexp2.Regexp
}

// A match error (regexp2 only fails on timeouts) counts as no match.
func (m *regexp2Matcher) MatchString(line string) bool {
	ok, err := m.re.MatchString(line)
	return err == nil && ok
}

// regexp2 reports rune offsets; they are converted back to byte offsets.
func (m *regexp2Matcher) FindAllStringIndex(line string) [][2]int {
	match, err := m.re.FindStringMatch(line)
	if err != nil || match == nil {
		return nil
	}
	runeToByte := runeOffsets(line)
	var out [][2]int
	for match != nil {
		start := match.Index
		end := match.Index + match.Length
		if start < len(runeToByte) && end < len(runeToByte) && end > start {
			out = append(out, [2]int{runeToByte[start], runeToByte[end]})
		}
		match, err = m.re.FindNextMatch(match)
		if err != nil {
			break
		}
	}
	return out
}

func (m *regexp2Matcher) String() string { return m.src }

// runeOffsets maps each rune index of s to its byte offset. The final entry
// is len(s) so an end offset at the end of the string resolves too.
func runeOffsets(s string) []int {
	offsets := make([]int, 0, utf8.RuneCountInString(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
