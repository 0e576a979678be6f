package descriptor

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single pattern evaluation.
const MatchTimeout = time.Second

// Pattern is a compiled regular expression with ECMAScript semantics. A match
// anywhere in the string is enough; anchor the pattern to require a full
// match.
type Pattern struct {
	source string
	re     *regexp2.Regexp
}

// CompilePattern compiles source with ECMAScript options.
func CompilePattern(source string) (*Pattern, error) {
	re, err := regexp2.Compile(source, regexp2.ECMAScript)
	if err != nil {
		return nil, &SyntaxError{Input: "/" + source + "/", Msg: fmt.Sprintf("invalid pattern: %v", err)}
	}
	re.MatchTimeout = MatchTimeout
	return &Pattern{source: source, re: re}, nil
}

// MatchString reports whether s contains a match of the pattern.
func (p *Pattern) MatchString(s string) (bool, error) {
	return p.re.MatchString(s)
}

// String returns the pattern source without delimiters.
func (p *Pattern) String() string {
	return p.source
}

// Regex returns a regex descriptor for source.
func Regex(source string) (Descriptor, error) {
	p, err := CompilePattern(source)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{Kind: KindRegex, Pattern: p}, nil
}

// MustRegex is like Regex but panics on an invalid pattern. It is meant for
// package-level descriptor literals.
func MustRegex(source string) Descriptor {
	d, err := Regex(source)
	if err != nil {
		panic(err)
	}
	return d
}
