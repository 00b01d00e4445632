package locator

// Kind classifies a project by its build-marker files. Informational only;
// nothing downstream branches on it.
type Kind string

const (
	KindGo         Kind = "go"
	KindJavaScript Kind = "javascript"
	KindPython     Kind = "python"
	KindRust       Kind = "rust"
	KindJava       Kind = "java"
	KindRuby       Kind = "ruby"
	KindUnknown    Kind = "unknown"
)

// Project is a located project: the directory that owns a summary
// document, found either by the marker walk or through the registry.
type Project struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	SummaryDir string `json:"summary_dir"`
}
