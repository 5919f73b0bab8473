package page

// Client-facing error messages.
const (
	msgNameRequired = "name required"
	msgPageNotFound = "page not found"
	msgBodyTooLarge = "request body too large"
)
