package util

import "testing"

func TestTruncate(t *testing.T) {
    if got := Truncate("hello", 10); got != "hello" {
        t.Fatalf("short string must pass through, got %q", got)
    }
    if got := Truncate("hello world", 5); got != "hello" {
        t.Fatalf("expected cut to 5, got %q", got)
    }
    if got := Truncate("hello", 0); got != "hello" {
        t.Fatalf("zero max means no limit, got %q", got)
    }
    // rune-safe cut
    if got := Truncate("héllo", 2); got != "hé" {
        t.Fatalf("expected rune-aware cut, got %q", got)
    }
}

func TestParseIntDefault(t *testing.T) {
    if got := ParseIntDefault("42", 7); got != 42 {
        t.Fatalf("expected 42, got %d", got)
    }
    if got := ParseIntDefault("", 7); got != 7 {
        t.Fatalf("expected default, got %d", got)
    }
    if got := ParseIntDefault("abc", 7); got != 7 {
        t.Fatalf("expected default on junk, got %d", got)
    }
}
