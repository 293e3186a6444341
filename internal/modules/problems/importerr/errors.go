// Package importerr holds the failure kinds of the problem import pipeline.
// Callers wrap them with %w and test with errors.Is.
package importerr

import "errors"

var (
	// ErrUnsupportedFormat: the file extension is not a known document or
	// spreadsheet type. Nothing is read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrRead: the upload could not be read.
	ErrRead = errors.New("file could not be read")
	// ErrParse: the container or workbook is malformed, or a PDF page has no
	// text layer.
	ErrParse = errors.New("file could not be parsed")
	// ErrNoMatches: nothing recognizable was found. Benign; no write happens.
	ErrNoMatches = errors.New("no problems found in file")
	// ErrMetadataLoad: the catalog could not be fetched. Imports continue
	// with degraded matching.
	ErrMetadataLoad = errors.New("problem catalog unavailable")
	// ErrPersistence: the merged collection could not be written. The
	// pending batch survives so the commit can be retried.
	ErrPersistence = errors.New("could not save problems")

	ErrImportInProgress = errors.New("another import is being committed for this user")
	ErrSuperseded       = errors.New("import superseded by a newer upload")
	ErrBatchNotFound    = errors.New("import batch not found or expired")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")

	// ErrEmptySelection: a commit named slugs and none of them are in the
	// batch. The batch is kept.
	ErrEmptySelection = errors.New("none of the selected problems are in this import")
)
