// Package dice provides the five-die set used by the Yahtzee engine and the
// randomness abstraction behind it.
package dice

import (
	"errors"
	"fmt"
)

const (
	// Count is the number of dice in a set.
	Count = 5
	// Faces is the number of faces on each die.
	Faces = 6
)

// ErrIndexOutOfRange is returned when a die index is outside [0, Count).
var ErrIndexOutOfRange = errors.New("die index out of range")

// ErrInvalidValue is returned when a forced die value is outside [1, Faces].
var ErrInvalidValue = errors.New("die value out of range")

// Set holds five die values and their held flags.
//
// Invariant: every value is in [1, Faces] once the set has been rolled.
// Invariant: held dice never change value on Roll.
type Set struct {
	src    Source
	values [Count]int
	held   [Count]bool
}

// NewSet returns a set rolled once with src, none held.
//
// Precondition: src must be non-nil.
func NewSet(src Source) *Set {
	s := &Set{src: src}
	s.Roll()
	return s
}

// Roll redraws every unheld die uniformly from [1, Faces].
func (s *Set) Roll() {
	for i := range s.values {
		if !s.held[i] {
			s.values[i] = s.src.Intn(Faces) + 1
		}
	}
}

// SetHeld marks die i held or unheld.
//
// Postcondition: returns ErrIndexOutOfRange and changes nothing if i is out of range.
func (s *Set) SetHeld(i int, held bool) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	s.held[i] = held
	return nil
}

// IsHeld reports whether die i is held.
func (s *Set) IsHeld(i int) (bool, error) {
	if err := checkIndex(i); err != nil {
		return false, err
	}
	return s.held[i], nil
}

// Die returns the value of die i.
func (s *Set) Die(i int) (int, error) {
	if err := checkIndex(i); err != nil {
		return 0, err
	}
	return s.values[i], nil
}

// ClearHeld releases every die.
func (s *Set) ClearHeld() {
	s.held = [Count]bool{}
}

// SetValues overwrites die values positionally, ignoring held flags. Values
// past the fifth are ignored; fewer than five leave the remaining dice as they
// were. Held state is not altered.
//
// Postcondition: on ErrInvalidValue nothing is changed.
func (s *Set) SetValues(values []int) error {
	for i, v := range values {
		if i >= Count {
			break
		}
		if v < 1 || v > Faces {
			return fmt.Errorf("position %d value %d: %w", i, v, ErrInvalidValue)
		}
	}
	for i, v := range values {
		if i >= Count {
			break
		}
		s.values[i] = v
	}
	return nil
}

// Values returns a copy of the current die values.
func (s *Set) Values() [Count]int {
	return s.values
}

// Held returns a copy of the current held flags.
func (s *Set) Held() [Count]bool {
	return s.held
}

// View returns a read-only snapshot of the set.
func (s *Set) View() View {
	return View{Values: s.values, Held: s.held}
}

// View is an immutable snapshot of a Set handed to presentation code.
type View struct {
	Values [Count]int
	Held   [Count]bool
}

// Sum returns the total of all die values.
func (v View) Sum() int {
	total := 0
	for _, d := range v.Values {
		total += d
	}
	return total
}

// String renders the view as "[3 5* 1 6* 2]" where * marks held dice.
func (v View) String() string {
	out := "["
	for i, d := range v.Values {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%d", d)
		if v.Held[i] {
			out += "*"
		}
	}
	return out + "]"
}

func checkIndex(i int) error {
	if i < 0 || i >= Count {
		return fmt.Errorf("index %d: %w", i, ErrIndexOutOfRange)
	}
	return nil
}
