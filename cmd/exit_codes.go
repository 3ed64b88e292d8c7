package cmd

const (
	// Success is the same as EXIT_SUCCESS in C
	Success = iota

	// BadArgs passed to cli; not our fault.
	BadArgs

	// UnknownError is an uncategorized error, probably our fault.
	UnknownError
)
