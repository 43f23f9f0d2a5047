package service

import "errors"

var (
	ErrNameRequired     = errors.New("case name is required")
	ErrCaseNotFound     = errors.New("case not found")
	ErrEvidenceNotFound = errors.New("evidence not found")
	ErrNoFiles          = errors.New("at least one file is required")
	ErrReaderNil        = errors.New("reader is nil")
	ErrNotConfirmed     = errors.New("analysis not confirmed")
)
