package main

import (
	"strings"
	"testing"
	"time"
)

func TestValidateRemoteTarget(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr string
	}{
		{"alice@10.0.0.5", ""},
		{"alice@example.com", ""},
		{"alice@[::1]", ""},
		{"alice", "expected user@host"},
		{"@host", "expected user@host"},
		{"alice@", "expected user@host"},
		{"a@b@c", "expected user@host"},
		{"-oProxy@host", "invalid remote target"},
		{"alice@my host", "spaces are not allowed"},
		{"alice@host/var/log", "<directory>"},
		{"alice@example.com:2222", "--ssh-port"},
		{"alice@[::1]:2222", "--ssh-port"},
		{"alice@[::1", "malformed bracketed host"},
		{"alice@[]", "empty host"},
		{"alice@host]", "malformed bracketed host"},
	}

	for _, tt := range tests {
		err := validateRemoteTarget(tt.raw)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("validateRemoteTarget(%q) = %v, want nil", tt.raw, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("validateRemoteTarget(%q) = %v, want error containing %q", tt.raw, err, tt.wantErr)
		}
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"15s", 15 * time.Second},
		{"1m", time.Minute},
		{"20", 20 * time.Second},
		{" 5s ", 5 * time.Second},
	}
	for _, tt := range tests {
		got, err := parseTimeout(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseTimeout(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := parseTimeout("soon"); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestSplitComma(t *testing.T) {
	got := splitComma(" node_modules, .git,,vendor ")
	if strings.Join(got, "|") != "node_modules|.git|vendor" {
		t.Errorf("splitComma = %q", got)
	}
	if got := splitComma(""); len(got) != 0 {
		t.Errorf("splitComma(\"\") = %q", got)
	}
}
