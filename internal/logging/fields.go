package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldFile       = "file"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Pipeline fields.
	FieldFormat   = "format"
	FieldEngine   = "engine"
	FieldFilter   = "filter"
	FieldPlugin   = "plugin"
	FieldRule     = "rule"
	FieldKey      = "key"
	FieldLine     = "line"
	FieldHeading  = "heading"
	FieldLanguage = "language"

	// Statistics fields.
	FieldFilesCollated = "files_collated"
	FieldFilesExcluded = "files_excluded"
	FieldBytes         = "bytes"
	FieldCount         = "count"
	FieldReplacements  = "replacements"
	FieldTKCount       = "tk_count"
	FieldDuration      = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
