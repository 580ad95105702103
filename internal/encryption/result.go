package encryption

// Result represents the outcome of processing a single file.
type Result struct {
	// Path of the file, transformed in place
	Path string

	// Size in bytes, unchanged by the transform
	Size int64

	// Any error that occurred during processing
	Error error
}

// Summary aggregates the results of one ProcessFiles call.
type Summary struct {
	Processed int
	Errored   int
	Skipped   int
	TotalSize int64

	// Failures holds the error of every failed file, each a *FileError.
	Failures []error
}
