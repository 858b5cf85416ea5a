// Package spintax resolves {a|b|c} alternation groups.
//
// Spin never fails: malformed input is processed until no innermost group
// remains or MaxIterations is reached, and any residual braces are left in
// the output. Call Validate first when malformed input must be rejected.
package spintax

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// MaxIterations bounds the number of groups resolved by a single call.
const MaxIterations = 500

var (
	// ErrUnbalanced reports a closing brace without an opening one, or an unclosed group.
	ErrUnbalanced = errors.New("spintax: unbalanced braces")
	// ErrEmptyOption reports an empty alternative such as {|x}, {x|} or {x||y}.
	ErrEmptyOption = errors.New("spintax: empty option")
)

var innermostGroup = regexp.MustCompile(`\{([^{}]*)\}`)

// Chooser returns an index in [0, n).
type Chooser func(n int) int

// Expander resolves spintax with an injectable source of randomness.
type Expander struct {
	choose Chooser
}

// NewExpander returns an expander using choose. A nil chooser picks uniformly
// at random.
func NewExpander(choose Chooser) *Expander {
	if choose == nil {
		choose = rand.IntN
	}
	return &Expander{choose: choose}
}

// Seeded returns an expander with a deterministic PCG source.
func Seeded(seed uint64) *Expander {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return NewExpander(rng.IntN)
}

var defaultExpander = NewExpander(nil)

// Spin resolves text with the package level random expander.
func Spin(text string) string {
	return defaultExpander.Spin(text)
}

// Spin repeatedly replaces the first innermost group with one of its options.
func (e *Expander) Spin(text string) string {
	for i := 0; i < MaxIterations; i++ {
		loc := innermostGroup.FindStringSubmatchIndex(text)
		if loc == nil {
			return text
		}
		options := strings.Split(text[loc[2]:loc[3]], "|")
		choice := options[e.pick(len(options))]
		text = text[:loc[0]] + choice + text[loc[1]:]
	}
	return text
}

func (e *Expander) pick(n int) int {
	if n <= 1 {
		return 0
	}
	idx := e.choose(n)
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

// CountVariations walks the groups like Spin but multiplies option counts,
// always continuing with the first option. Groups are treated as independent.
func CountVariations(text string) int {
	total := 1
	for i := 0; i < MaxIterations; i++ {
		loc := innermostGroup.FindStringSubmatchIndex(text)
		if loc == nil {
			break
		}
		options := strings.Split(text[loc[2]:loc[3]], "|")
		total *= len(options)
		text = text[:loc[0]] + options[0] + text[loc[1]:]
	}
	return total
}

type group struct {
	start    int
	hasPipe  bool
	nonEmpty bool
}

// Validate reports whether braces are balanced and no alternative is empty.
func Validate(text string) error {
	var stack []group
	for i, r := range text {
		switch r {
		case '{':
			if len(stack) > 0 {
				stack[len(stack)-1].nonEmpty = true
			}
			stack = append(stack, group{start: i})
		case '|':
			if len(stack) == 0 {
				continue
			}
			top := &stack[len(stack)-1]
			if !top.nonEmpty {
				return fmt.Errorf("%w at offset %d", ErrEmptyOption, i)
			}
			top.hasPipe = true
			top.nonEmpty = false
		case '}':
			if len(stack) == 0 {
				return fmt.Errorf("%w: unexpected '}' at offset %d", ErrUnbalanced, i)
			}
			top := stack[len(stack)-1]
			if !top.nonEmpty {
				return fmt.Errorf("%w at offset %d", ErrEmptyOption, i)
			}
			stack = stack[:len(stack)-1]
		default:
			if len(stack) > 0 && !isSpace(r) {
				stack[len(stack)-1].nonEmpty = true
			}
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("%w: unclosed '{' at offset %d", ErrUnbalanced, stack[len(stack)-1].start)
	}
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
