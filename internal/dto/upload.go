package dto

type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// BatchDeleteResult splits keys by the outcome of a best-effort delete.
type BatchDeleteResult struct {
	Deleted []string
	Failed  []string
}

// KeyHint shapes the object key: <Prefix>/<Scope>-<unix millis>-<random>.<ext>.
// The extension comes from the content type, then from FileName.
type KeyHint struct {
	Prefix   string
	Scope    string
	FileName string
}

type ObjectUpload struct {
	File FileUpload
	Hint KeyHint
}
