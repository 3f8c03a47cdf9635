package engine_test

import (
	"reflect"
	"testing"

	"github.com/Prathmesh1703/SearchEngine/src/core/engine"
)

func TestNormalizeDomains(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"already clean", []string{"reddit.com"}, []string{"reddit.com"}},
		{"scheme and www", []string{"https://www.Reddit.com/"}, []string{"reddit.com"}},
		{"http scheme", []string{"http://x.com"}, []string{"x.com"}},
		{"blank entries dropped", []string{"", "  ", "tiktok.com"}, []string{"tiktok.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.NormalizeDomains(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeDomains(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDomainAllowed(t *testing.T) {
	allowed := engine.NormalizeDomains([]string{"https://www.reddit.com", "x.com"})

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.reddit.com/r/golang/comments/1", true},
		{"https://X.com/someuser/status/2", true},
		{"https://news.ycombinator.com/item?id=3", false},
	}

	for _, tt := range tests {
		if got := engine.DomainAllowed(tt.url, allowed); got != tt.want {
			t.Errorf("DomainAllowed(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}

	if !engine.DomainAllowed("https://anything.example.com", nil) {
		t.Error("empty allow-list should admit everything")
	}
}
