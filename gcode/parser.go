// Package gcode provides the thin plumbing around the arcwelder engine:
// recognizing the handful of commands that matter to compression, tracking
// absolute position and extrusion state, and streaming a gcode file through
// an accumulator.
package gcode

import (
	"strconv"
	"strings"
)

// Command is one recognized gcode line: its command code plus the numeric
// value of each parameter word.
type Command struct {
	Code   string
	Params map[byte]float64
}

// ParseCommand splits a line into its command code and parameter words.
// Comments are stripped first. Lines that are empty, pure comments, not G or
// M commands, or carry a malformed parameter return ok=false; such lines
// pass through the compressor untouched.
func ParseCommand(line string) (Command, bool) {
	text := line
	if i := strings.IndexByte(text, ';'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, false
	}
	code := strings.ToUpper(fields[0])
	if len(code) < 2 || (code[0] != 'G' && code[0] != 'M') {
		return Command{}, false
	}
	if _, err := strconv.Atoi(code[1:]); err != nil {
		return Command{}, false
	}
	cmd := Command{Code: code, Params: make(map[byte]float64, len(fields)-1)}
	for _, field := range fields[1:] {
		letter := field[0]
		if letter >= 'a' && letter <= 'z' {
			letter -= 'a' - 'A'
		}
		if letter < 'A' || letter > 'Z' || len(field) < 2 {
			return Command{}, false
		}
		value, err := strconv.ParseFloat(field[1:], 64)
		if err != nil {
			return Command{}, false
		}
		cmd.Params[letter] = value
	}
	return cmd, true
}
