package webutil

const (
	// Header Keys
	HeaderContentType        = "Content-Type"
	HeaderAuthorization      = "Authorization"
	HeaderContentTypeOptions = "X-Content-Type-Options"
	HeaderFrameOptions       = "X-Frame-Options"
	HeaderXSSProtection      = "X-XSS-Protection"

	// Content Types
	ContentTypeJSONUTF8 = "application/json; charset=utf-8"
)
