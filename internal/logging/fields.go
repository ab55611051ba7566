package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldCommand    = "command"

	// Index fields.
	FieldIndex       = "index"
	FieldCompression = "compression"
	FieldLanguage    = "language"
	FieldKind        = "kind"
	FieldBytes       = "bytes"
	FieldIndexBytes  = "index_bytes"
	FieldJobs        = "jobs"

	// Search fields.
	FieldPattern     = "pattern"
	FieldPatterns    = "patterns"
	FieldOccurrences = "occurrences"

	// Statistics fields.
	FieldFilesIndexed  = "files_indexed"
	FieldFilesSearched = "files_searched"
	FieldFailures      = "failures"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
