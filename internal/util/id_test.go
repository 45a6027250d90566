package util

import (
	"errors"
	"testing"
)

func TestShortID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		n    int
		want string
	}{
		{
			name: "default length truncates",
			id:   "3f2a9c1e-7b44-4d0e-9a51-0c8e2f6b1d77",
			n:    0,
			want: "3f2a9c1e",
		},
		{
			name: "negative uses default",
			id:   "3f2a9c1e-7b44-4d0e-9a51-0c8e2f6b1d77",
			n:    -1,
			want: "3f2a9c1e",
		},
		{
			name: "explicit length",
			id:   "3f2a9c1e-7b44-4d0e-9a51-0c8e2f6b1d77",
			n:    13,
			want: "3f2a9c1e-7b44",
		},
		{
			name: "shorter than length",
			id:   "abc",
			n:    8,
			want: "abc",
		},
		{
			name: "empty ID",
			id:   "",
			n:    8,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortID(tt.id, tt.n); got != tt.want {
				t.Errorf("ShortID(%q, %d) = %q, want %q", tt.id, tt.n, got, tt.want)
			}
		})
	}
}

func TestResolveID(t *testing.T) {
	ids := []string{
		"3f2a9c1e-7b44-4d0e-9a51-0c8e2f6b1d77",
		"3f2b0000-0000-4000-8000-000000000000",
		"a1",
		"a1b2",
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr error
	}{
		{name: "full id", ref: ids[0], want: ids[0]},
		{name: "unique prefix", ref: "3f2a", want: ids[0]},
		{name: "case and space insensitive", ref: "  3F2B ", want: ids[1]},
		{name: "exact match beats longer prefix match", ref: "a1", want: "a1"},
		{name: "ambiguous", ref: "3f2", wantErr: ErrAmbiguousID},
		{name: "missing", ref: "zz", wantErr: ErrNotFound},
		{name: "empty", ref: "", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveID(tt.ref, ids)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveID(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveID(%q) unexpected error: %v", tt.ref, err)
			}
			if got != tt.want {
				t.Errorf("ResolveID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
