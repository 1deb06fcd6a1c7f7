package tools

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNoTarget is returned when no quoted target string can be extracted from
// the tool input.
var ErrNoTarget = errors.New("no quoted target string found in input")

// StringLengthTool returns the character count of the target string in a
// natural-language request. The target is the longest span enclosed in
// matching single, double, or backtick quotes; on a tie the earliest span
// wins. A quoted empty span is a valid target with length 0. Surrounding
// phrasing and casing never affect the result.
type StringLengthTool struct{}

func (s *StringLengthTool) Name() string { return "StringLengthTool" }
func (s *StringLengthTool) Description() string {
	return "Useful for when you need to find the length of a string. Input must contain the target string in quotes."
}

func (s *StringLengthTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"input": map[string]interface{}{"type": "string"}},
		"required":   []string{"input"},
	}
}

func (s *StringLengthTool) Execute(ctx context.Context, input string) (string, error) {
	target, err := ExtractTarget(input)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(utf8.RuneCountInString(target)), nil
}

// ExtractTarget applies the extraction rule: longest quoted span, earliest on
// a tie. Quote characters are ', " and `; pairs must match. Returns
// ErrNoTarget when the input holds no complete quoted span.
func ExtractTarget(input string) (string, error) {
	const quotes = "'\"`"

	best := ""
	found := false

	rest := input
	for {
		i := strings.IndexAny(rest, quotes)
		if i < 0 {
			break
		}
		q := rest[i]
		j := strings.IndexByte(rest[i+1:], q)
		if j < 0 {
			// Unmatched quote; skip it and keep scanning
			rest = rest[i+1:]
			continue
		}
		span := rest[i+1 : i+1+j]
		if !found || utf8.RuneCountInString(span) > utf8.RuneCountInString(best) {
			best = span
			found = true
		}
		rest = rest[i+1+j+1:]
	}

	if !found {
		return "", ErrNoTarget
	}
	return best, nil
}

var _ Tool = (*StringLengthTool)(nil)
