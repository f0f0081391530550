package model

import "errors"

var (
	ErrLoanNotFound     = errors.New("loan not found")
	ErrNoteNotFound     = errors.New("note not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrNotNoteAuthor    = errors.New("only the author can change a note")
	ErrEmptyNoteContent = errors.New("note content is required")
	ErrOptimisticLock   = errors.New("optimistic locking conflict")
	ErrInvalidLoan      = errors.New("invalid loan")
	ErrInvalidReport    = errors.New("invalid report definition")
)
