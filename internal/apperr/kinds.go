package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by an evaluation. Match them with errors.Is.
var (
	ErrUnknownTask              = errors.New("unknown task")
	ErrUnknownRound             = errors.New("unknown round")
	ErrMalformedGroundTruth     = errors.New("malformed ground truth")
	ErrMalformedSubmission      = errors.New("malformed submission")
	ErrDuplicateSubmissionEntry = errors.New("duplicate submission entry")
)

// RecordError points at the offending record of a ground-truth or submission source.
type RecordError struct {
	Kind    error
	Source  string
	Line    int
	Key     string
	Message string
	Err     error
}

func (e *RecordError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Source != "" {
		fmt.Fprintf(&b, " in %s", e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " (key %s)", e.Key)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewRecord(kind error, line int, msg string) *RecordError {
	return &RecordError{Kind: kind, Line: line, Message: msg}
}

func UnknownTask(name string) error {
	return fmt.Errorf("%w: %q (expected one of CEA, CPA, CTA)", ErrUnknownTask, name)
}

func UnknownRound(round int, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: %d", ErrUnknownRound, round)
	}
	return fmt.Errorf("%w: %d: %s", ErrUnknownRound, round, reason)
}

// KindOf returns the evaluation kind carried by err, or nil.
func KindOf(err error) error {
	for _, k := range []error{
		ErrUnknownTask,
		ErrUnknownRound,
		ErrMalformedGroundTruth,
		ErrMalformedSubmission,
		ErrDuplicateSubmissionEntry,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

var ErrNotFound = errors.New("not found")
