package tools

import (
	"context"
	"errors"
	"testing"
)

func TestExtractTarget(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"single quotes", "What is the length of the word 'hello'?", "hello"},
		{"double quotes", `How long is "WORLD" please?`, "WORLD"},
		{"backticks", "Count the characters in `abc`", "abc"},
		{"empty span", "The length of '' should be zero", ""},
		{"longest span wins", "Compare 'ab' with 'abcdef' here", "abcdef"},
		{"earliest on tie", "Both 'one' and 'two' are three long", "one"},
		{"unmatched quote skipped", "It's the word \"target\" we want", "target"},
		{"quotes inside other quotes", `She said "don't panic" loudly`, "don't panic"},
		{"unicode span", "How long is 'héllo'?", "héllo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractTarget(tc.input)
			if err != nil {
				t.Fatalf("ExtractTarget(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ExtractTarget(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestExtractTargetNoTarget(t *testing.T) {
	inputs := []string{
		"no quotes at all",
		"",
		"a lone ' quote",
		"mismatched \"pair'",
	}
	for _, in := range inputs {
		if _, err := ExtractTarget(in); !errors.Is(err, ErrNoTarget) {
			t.Fatalf("ExtractTarget(%q) error = %v, want ErrNoTarget", in, err)
		}
	}
}

func TestStringLengthToolExecute(t *testing.T) {
	tool := &StringLengthTool{}
	ctx := context.Background()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"basic word", "What is the length of the word 'hello'?", "5"},
		{"different casing", "how long is the text 'WORLD' please?", "5"},
		{"phrasing irrelevant", "'hello' -- count it", "5"},
		{"empty target", "length of '' now", "0"},
		{"runes not bytes", "length of 'héllo'", "5"},
		{"spaces count", "length of 'a b c'", "5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tool.Execute(ctx, tc.input)
			if err != nil {
				t.Fatalf("Execute(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("Execute(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestStringLengthToolExecuteNoTarget(t *testing.T) {
	tool := &StringLengthTool{}
	if _, err := tool.Execute(context.Background(), "count the word hello"); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
}

func TestStringLengthToolMetadata(t *testing.T) {
	tool := &StringLengthTool{}
	if tool.Name() != "StringLengthTool" {
		t.Errorf("unexpected name: %s", tool.Name())
	}
	if tool.Description() == "" {
		t.Error("expected non-empty description")
	}
	schema := tool.Schema()
	if schema["type"] != "object" {
		t.Errorf("expected object schema, got %v", schema["type"])
	}
}

func TestStringLengthToolDeterministic(t *testing.T) {
	tool := &StringLengthTool{}
	ctx := context.Background()

	first, err := tool.Execute(ctx, "length of 'repeatable'")
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := tool.Execute(ctx, "length of 'repeatable'")
		if err != nil {
			t.Fatalf("execute %d: %v", i, err)
		}
		if got != first {
			t.Fatalf("execute %d returned %q, first returned %q", i, got, first)
		}
	}
}
