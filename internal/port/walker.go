package port

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// Page is one extracted unit of a document. Plain text files have a single page 0.
type Page struct {
	Number int
	Text   string
}

type DocumentLoader interface {
	Load(path string) ([]Page, error)
}
