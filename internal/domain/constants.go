package domain

// Filesystem permission constants used across infrastructure adapters.
const (
	DirectoryPermissions  = 0o755
	FilePermissions       = 0o644
	SecureFilePermissions = 0o600
)

// MaxInputLength bounds a single natural-language request.
const MaxInputLength = 1000
