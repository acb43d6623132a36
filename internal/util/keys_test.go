package util

import "testing"

func TestMatchPrefixEscapesGlob(t *testing.T) {
	cases := map[string]string{
		"session:":  "session:*",
		"":          "*",
		"a*b":       `a\*b*`,
		"q?[x]":     `q\?\[x\]*`,
		`back\sl`:   `back\\sl*`,
		"user:{42}": "user:{42}*",
	}
	for in, want := range cases {
		if got := MatchPrefix(in); got != want {
			t.Fatalf("MatchPrefix(%q) = %q want %q", in, got, want)
		}
	}
}
