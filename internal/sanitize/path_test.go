package sanitize

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDir(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name:    "empty path",
			path:    "",
			wantErr: ErrEmptyPath,
		},
		{
			name:    "blank path",
			path:    "  ",
			wantErr: ErrEmptyPath,
		},
		{
			name: "simple relative path",
			path: "logs/app",
		},
		{
			name: "simple absolute path",
			path: "/var/log/app",
		},
		{
			name: "dots inside a name",
			path: "logs/v1..2",
		},
		{
			name:    "traversal - simple",
			path:    "../logs",
			wantErr: ErrPathTraversal,
		},
		{
			name:    "traversal - middle",
			path:    "logs/../../etc",
			wantErr: ErrPathTraversal,
		},
		{
			name:    "traversal - at end",
			path:    "logs/app/..",
			wantErr: ErrPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dir(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Dir() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Dir() unexpected error = %v", err)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("Dir() = %q, want absolute path", got)
			}
		})
	}
}
