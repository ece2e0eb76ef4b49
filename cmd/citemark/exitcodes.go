package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid config, no bibliography)
	ExitDataError   = 3 // Data error (unreadable document or bibliography)
	ExitUndefined   = 4 // check --strict found undefined citations
)
