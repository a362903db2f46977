package command

import (
	"fmt"
	"strings"
)

// Registry resolves the words a player types at the table prompt to the
// table command they name. Names and aliases share one namespace and match
// case-insensitively.
type Registry struct {
	order  []*Command
	lookup map[string]*Command
}

// NewRegistry indexes cmds by name and alias, keeping cmds' order for help.
//
// Precondition: every command has a Name and a Handler.
// Postcondition: Returns an error naming the first word claimed twice.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{lookup: make(map[string]*Command)}
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Name == "" || cmd.Handler == "" {
			return nil, fmt.Errorf("command %d: name and handler are required", i)
		}
		for j, word := range append([]string{cmd.Name}, cmd.Aliases...) {
			key := strings.ToLower(word)
			if prev, taken := r.lookup[key]; taken {
				kind := "alias"
				if j == 0 {
					kind = "command name"
				}
				return nil, fmt.Errorf("duplicate %s %q: already used by %q", kind, word, prev.Name)
			}
			r.lookup[key] = cmd
		}
		r.order = append(r.order, cmd)
	}
	return r, nil
}

// DefaultRegistry returns the table's built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve returns the command named or aliased by word.
func (r *Registry) Resolve(word string) (*Command, bool) {
	cmd, ok := r.lookup[strings.ToLower(word)]
	return cmd, ok
}

// Commands returns every command in help order.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.order...)
}

// CommandsByCategory groups Commands by play, info and system.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.order {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}
