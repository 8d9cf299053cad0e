package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureData struct {
	Output string
	Device string
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "camera command",
			tmpl: "imagesnap -q {{ .Output | shq }}",
			data: captureData{Output: "/tmp/frame.jpg"},
			want: "imagesnap -q '/tmp/frame.jpg'",
		},
		{
			name: "device and output",
			tmpl: "fswebcam -d {{ .Device }} --no-banner {{ .Output | shq }}",
			data: captureData{Output: "/tmp/frame.jpg", Device: "/dev/video0"},
			want: "fswebcam -d /dev/video0 --no-banner '/tmp/frame.jpg'",
		},
		{
			name: "map data",
			tmpl: "{{ .Output }}",
			data: map[string]string{"Output": "x"},
			want: "x",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Output": "test"},
			wantErr: true,
		},
		{
			name:    "unknown struct field errors",
			tmpl:    "{{ .Frame }}",
			data:    captureData{},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Output }",
			data:    captureData{},
			wantErr: true,
		},
		{
			name: "shq with single quotes",
			tmpl: "{{ .Output | shq }}",
			data: captureData{Output: "it's.jpg"},
			want: `'it'\''s.jpg'`,
		},
		{
			name: "shq with empty string",
			tmpl: "{{ .Output | shq }}",
			data: captureData{},
			want: "''",
		},
		{
			name: "shq with special chars",
			tmpl: "{{ .Output | shq }}",
			data: captureData{Output: "$(whoami) && rm -rf /"},
			want: "'$(whoami) && rm -rf /'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("imagesnap {{ .Output | shq }}", captureData{}))
	assert.Error(t, Check("imagesnap {{ .Nope }}", captureData{}))
}
