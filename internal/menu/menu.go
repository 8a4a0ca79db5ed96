// Package menu holds the numbered strategy menu of the interactive navigator.
package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/natevvv/terrain-routing/pkg/routing"
)

var (
	ErrNotANumber = errors.New("menu: invalid input, please enter a number")
	ErrOutOfRange = errors.New("menu: invalid choice")
)

// Option is one numbered menu entry. Strategy is empty for the exit entry.
type Option struct {
	Number   int
	Label    string
	Strategy string
}

func (o Option) Exit() bool { return o.Strategy == "" }

func (o Option) String() string { return fmt.Sprintf("%d. %s", o.Number, o.Label) }

// Options returns one entry per strategy followed by Exit.
func Options() []Option {
	strategies := routing.Strategies()
	options := make([]Option, 0, len(strategies)+1)
	for i, s := range strategies {
		options = append(options, Option{Number: i + 1, Label: s.Label, Strategy: s.Name})
	}
	return append(options, Option{Number: len(strategies) + 1, Label: "Exit"})
}

// Parse resolves the user's input to a menu option.
func Parse(input string) (Option, error) {
	input = strings.TrimSpace(input)
	n, err := strconv.Atoi(input)
	if err != nil || strings.HasPrefix(input, "+") || strings.HasPrefix(input, "-") {
		return Option{}, fmt.Errorf("%w: %q", ErrNotANumber, input)
	}
	options := Options()
	if n < 1 || n > len(options) {
		return Option{}, fmt.Errorf("%w: please select a number between 1 and %d", ErrOutOfRange, len(options))
	}
	return options[n-1], nil
}
