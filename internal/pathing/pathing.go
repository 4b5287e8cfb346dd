package pathing

import (
	"path/filepath"
	"strings"
)

// NormalizeInputPath trims path-like input from suite fields.
func NormalizeInputPath(path string) string {
	return strings.TrimSpace(path)
}

// IsAbsoluteLike reports whether the path should be treated as absolute
// regardless of host OS path semantics.
func IsAbsoluteLike(path string) bool {
	path = NormalizeInputPath(path)
	if path == "" {
		return false
	}
	if filepath.IsAbs(path) {
		return true
	}
	if strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, `//`) {
		return true
	}
	if strings.HasPrefix(path, "/") {
		return true
	}
	if len(path) >= 3 && isASCIIAlpha(path[0]) && path[1] == ':' && (path[2] == '\\' || path[2] == '/') {
		return true
	}

	return false
}

// ResolveDocumentFilePath resolves a possibly-relative document_file value
// against the suite file's directory while preserving absolute-like paths.
func ResolveDocumentFilePath(filePath string, baseDir string) string {
	filePath = NormalizeInputPath(filePath)
	if filePath == "" {
		return ""
	}
	if IsAbsoluteLike(filePath) || NormalizeInputPath(baseDir) == "" {
		return filePath
	}

	return filepath.Join(baseDir, filePath)
}

func isASCIIAlpha(char byte) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}
