package classifier

import (
	"fmt"

	"github.com/bryanwahyu/bcrisk/internal/domain/risk"
	"github.com/bryanwahyu/bcrisk/internal/infra/classifier/gbtree"
	"github.com/bryanwahyu/bcrisk/internal/infra/classifier/remote"
)

// New resolves the configured classifier adapter once at startup.
func New(modelType, path, url string) (risk.Classifier, error) {
	switch modelType {
	case "", "file":
		return gbtree.Load(path)
	case "remote":
		if url == "" {
			return nil, fmt.Errorf("model type %q requires a url", modelType)
		}
		return remote.NewClient(url), nil
	default:
		return nil, fmt.Errorf("unsupported model type: %s", modelType)
	}
}
