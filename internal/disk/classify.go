package disk

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// devRoot is the host device namespace. Anything under it is treated as a
// logical volume.
const devRoot = "/dev"

// classifierRule maps a path predicate to a backend kind. Rules are tried
// in order and the first match wins.
type classifierRule struct {
	name    string
	matches func(path string) bool
	kind    Kind
}

var classifierRules = []classifierRule{
	{
		name:    "rbd identifier",
		matches: func(path string) bool { return strings.HasPrefix(path, rbdPrefix) },
		kind:    KindRBD,
	},
	{
		name:    "device path",
		matches: isDevicePath,
		kind:    KindLVM,
	},
}

// Classifier decides which storage backend a disk path belongs to.
type Classifier struct {
	inspector *Inspector
}

// NewClassifier creates a Classifier that falls back to inspector for
// image files.
func NewClassifier(inspector *Inspector) *Classifier {
	return &Classifier{inspector: inspector}
}

// Classify returns the backend kind for path. RBD identifiers and device
// paths are recognised by shape; any other path must exist and is
// classified by the format qemu-img reports.
func (c *Classifier) Classify(ctx context.Context, path string) (Kind, error) {
	for _, rule := range classifierRules {
		if rule.matches(path) {
			slog.Debug("Classified disk.", "path", path, "rule", rule.name, "kind", rule.kind)
			return rule.kind, nil
		}
	}

	info, err := c.inspector.Info(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to classify %s: %w", path, err)
	}
	return Kind(info.FileFormat), nil
}

func isDevicePath(path string) bool {
	clean := filepath.Clean(path)
	return clean == devRoot || strings.HasPrefix(clean, devRoot+"/")
}
