package classifier

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		modelType string
		path      string
		url       string
		wantErr   bool
	}{
		{"default resolves to file", "", filepath.Join("gbtree", "testdata", "model.json"), "", false},
		{"file", "file", filepath.Join("gbtree", "testdata", "model.json"), "", false},
		{"file missing artifact", "file", filepath.Join("gbtree", "testdata", "nope.json"), "", true},
		{"remote", "remote", "", "http://127.0.0.1:9000", false},
		{"remote without url", "remote", "", "", true},
		{"unsupported", "onnx", "model.onnx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.modelType, tt.path, tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}
