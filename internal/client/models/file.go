package models

// Status is the server-reported processing state of an uploaded file.
type Status string

const (
	StatusNotProcessed Status = "not processed"
	StatusProcessing   Status = "processing"
	StatusProcessed    Status = "processed"
)

// ParseStatus maps the wire representation of a processing state onto a
// Status. Unknown values are treated as "not processed" rather than an
// error, mirroring how the backend reports freshly uploaded files.
func ParseStatus(s string) Status {
	switch s {
	case string(StatusProcessing):
		return StatusProcessing
	case string(StatusProcessed):
		return StatusProcessed
	default:
		return StatusNotProcessed
	}
}

// FileRecord is the client's cached copy of one server-side file entry.
// It is only as fresh as the last list response.
type FileRecord struct {
	ID       string
	Filename string
	Status   Status
}

// CanProcess reports whether a process command may be issued: only files
// the server has not touched yet are eligible. Files that are processing
// or already processed must not be reprocessed.
func (r FileRecord) CanProcess() bool {
	return r.Status == StatusNotProcessed
}

// CanDownload reports whether the processed result can be fetched.
func (r FileRecord) CanDownload() bool {
	return r.Status == StatusProcessed
}

// CanDelete is true for every status: deletion is always legal.
func (r FileRecord) CanDelete() bool {
	return true
}
