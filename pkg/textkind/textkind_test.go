package textkind_test

import (
	"bytes"
	"testing"

	"github.com/yaklabco/ipmt/pkg/textkind"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    textkind.Kind
	}{
		{name: "empty", content: nil, want: textkind.Text},
		{name: "prose", content: []byte("the quick brown fox\n"), want: textkind.Text},
		{name: "utf-8", content: []byte("naïve café\n"), want: textkind.Text},
		{name: "nul byte", content: []byte("abc\x00def"), want: textkind.Binary},
		{
			name:    "nul byte past sample",
			content: append(bytes.Repeat([]byte("a"), 20000), 0),
			want:    textkind.Text,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := textkind.Classify(tt.content); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		want    string
	}{
		{name: "by extension", path: "main.go", content: "package main\n", want: "go"},
		{name: "shebang", path: "", content: "#!/bin/bash\necho hi\n", want: "bash"},
		{name: "plain text", path: "", content: "just words\n", want: "text"},
		{name: "binary", path: "main.go", content: "\x00\x01", want: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := textkind.Language(tt.path, []byte(tt.content)); got != tt.want {
				t.Errorf("Language() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	if textkind.Binary.String() != "binary" || textkind.Text.String() != "text" {
		t.Errorf("unexpected kind names %q, %q", textkind.Binary, textkind.Text)
	}
}
