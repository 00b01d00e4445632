package locator

import (
	"os"
	"path/filepath"
)

// kindMarkers maps build-marker files to project kinds, checked in order.
var kindMarkers = []struct {
	file string
	kind Kind
}{
	{"go.mod", KindGo},
	{"package.json", KindJavaScript},
	{"pyproject.toml", KindPython},
	{"requirements.txt", KindPython},
	{"setup.py", KindPython},
	{"Cargo.toml", KindRust},
	{"pom.xml", KindJava},
	{"build.gradle", KindJava},
	{"Gemfile", KindRuby},
}

// DetectKind classifies a project directory by its build-marker files.
func DetectKind(dir string) Kind {
	for _, m := range kindMarkers {
		if info, err := os.Stat(filepath.Join(dir, m.file)); err == nil && !info.IsDir() {
			return m.kind
		}
	}
	return KindUnknown
}
