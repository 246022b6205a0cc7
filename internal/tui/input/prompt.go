// Package input parses the TUI command prompt.
package input

import "strings"

// Command is an entry in the prompt's suggestion list.
type Command struct {
	Name        string // including the leading slash
	Usage       string
	Description string
}

// Matching returns the commands whose name starts with the typed word.
// Once an argument is being typed there is nothing left to suggest.
func Matching(line string, commands []Command) []Command {
	word := strings.ToLower(strings.TrimSpace(line))
	if !strings.HasPrefix(word, "/") || strings.ContainsRune(line, ' ') {
		return nil
	}
	var out []Command
	for _, c := range commands {
		if strings.HasPrefix(strings.ToLower(c.Name), word) {
			out = append(out, c)
		}
	}
	return out
}

// Complete expands the typed word to the first matching command, followed by
// a space ready for arguments.
func Complete(line string, commands []Command) (string, bool) {
	if m := Matching(line, commands); len(m) > 0 {
		return m[0].Name + " ", true
	}
	return "", false
}

// SplitCommand splits "/name rest of line" into the lower-cased name and
// the trimmed remainder. Input without a slash has no name.
func SplitCommand(line string) (name, rest string) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return "", line
	}
	name, rest, _ = strings.Cut(line, " ")
	return strings.ToLower(name), strings.TrimSpace(rest)
}

// SplitFields splits a "|" separated argument list. Class names contain
// spaces, so fields are not split on whitespace. Empty input yields nil.
func SplitFields(rest string) []string {
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	fields := strings.Split(rest, "|")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
