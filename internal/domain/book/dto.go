package book

// UpdateStatusRequest changes a book's reading status.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=not-started started done"`
}

// UploadResult reports the outcome for one file of an upload batch.
type UploadResult struct {
	Filename string `json:"filename"`
	Book     *Book  `json:"book,omitempty"`
	Error    string `json:"error,omitempty"`
}
