package mount

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	homeDir, err := homedir.Dir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		spec     string
		want     Mount
		wantErr  bool
		errMatch string
	}{
		{
			name: "tilde host defaults to rw",
			spec: "~/data:/data",
			want: Mount{Host: filepath.Join(homeDir, "data"), Container: "/data", Mode: ModeRW},
		},
		{
			name: "explicit ro",
			spec: "/host/path:/guest/path:ro",
			want: Mount{Host: "/host/path", Container: "/guest/path", Mode: ModeRO},
		},
		{
			name: "explicit rw",
			spec: "/host/path:/guest/path:rw",
			want: Mount{Host: "/host/path", Container: "/guest/path", Mode: ModeRW},
		},
		{
			name: "paths are cleaned",
			spec: "/host//path/:/guest/path/",
			want: Mount{Host: "/host/path", Container: "/guest/path", Mode: ModeRW},
		},
		{
			name:     "bogus mode",
			spec:     "~/data:/data:bogus",
			wantErr:  true,
			errMatch: "invalid mode",
		},
		{
			name:     "mode with trailing segment",
			spec:     "/a:/b:ro:extra",
			wantErr:  true,
			errMatch: "invalid mode",
		},
		{
			name:     "no colon",
			spec:     "/host/path",
			wantErr:  true,
			errMatch: "expected host:container",
		},
		{
			name:     "missing container",
			spec:     "/host/path:",
			wantErr:  true,
			errMatch: "missing container path",
		},
		{
			name:     "missing host",
			spec:     ":/data",
			wantErr:  true,
			errMatch: "missing host path",
		},
		{
			name:     "empty spec",
			spec:     "",
			wantErr:  true,
			errMatch: "cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidMount)
				assert.Contains(t, err.Error(), tt.errMatch)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAll(t *testing.T) {
	mounts, err := ParseAll([]string{"/a:/a", "/b:/b:ro"})
	require.NoError(t, err)
	assert.Equal(t, []Mount{
		{Host: "/a", Container: "/a", Mode: ModeRW},
		{Host: "/b", Container: "/b", Mode: ModeRO},
	}, mounts)

	_, err = ParseAll([]string{"/a:/a", "/b"})
	assert.ErrorIs(t, err, ErrInvalidMount)
}

func TestMount_String(t *testing.T) {
	m := Mount{Host: "/a", Container: "/b", Mode: ModeRO}
	assert.Equal(t, "/a:/b:ro", m.String())
	assert.True(t, m.ReadOnly())
}

func TestExpandPath(t *testing.T) {
	homeDir, err := homedir.Dir()
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "tilde expansion", path: "~/.npmrc", want: filepath.Join(homeDir, ".npmrc")},
		{name: "absolute path", path: "/etc/hosts", want: "/etc/hosts"},
		{name: "relative to base", path: "data/../cache", base: "/work/proj", want: "/work/proj/cache"},
		{name: "absolute ignores base", path: "/srv", base: "/work/proj", want: "/srv"},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandPath(tt.path, tt.base)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
