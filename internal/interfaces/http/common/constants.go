package common

// Request body caps. Submissions carry free text, never attachments, so the
// limits stay small.
const (
	MaxSubmissionRequestBody = 16 * 1024
	MaxReplyRequestBody      = 8 * 1024
	MaxAdminRequestBody      = 32 * 1024
)
