package errors

// Convenience constructors for common error patterns

// Config errors

func ValidationFailed(field, reason string) *ReportableError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Per-reference errors collected by the pipeline

func MissingAsset(path string) *ReportableError {
	return New(CategoryMissingAsset, SeverityError, "referenced file does not exist").
		WithContext("path", path)
}

func SourceUnreadable(path string, cause error) *ReportableError {
	return Wrap(cause, CategorySourceUnreadable, SeverityError, "referenced file could not be read").
		WithContext("path", path)
}

func UnsupportedReference(raw string) *ReportableError {
	return New(CategoryUnsupportedRef, SeverityWarning, "reference target is not a supported media type").
		WithContext("path", raw)
}

// Structural errors that abort a run

func DestinationUnwritable(path string, cause error) *ReportableError {
	return Wrap(cause, CategoryDestUnwritable, SeverityFatal, "target directory cannot be created or written").
		WithContext("path", path)
}

func RewriteInconsistency(path string, offset int) *ReportableError {
	return New(CategoryRewrite, SeverityFatal, "recorded span no longer matches document text").
		WithContext("path", path).
		WithContext("offset", offset)
}

func DocumentUnreadable(path string, cause error) *ReportableError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "source document could not be read").
		WithContext("path", path)
}

// Toolchain errors

func ToolchainFailed(command string, cause error) *ReportableError {
	return Wrap(cause, CategoryToolchain, SeverityFatal, "build toolchain failed").
		WithContext("command", command)
}
