package flow

import "errors"

var (
	// ErrUnanswered is returned when advancing past a question without an answer.
	ErrUnanswered = errors.New("current question has no answer")

	// ErrNotCompleted is returned when saving a flow that has not reached the end.
	ErrNotCompleted = errors.New("diagnostic is not completed")

	// ErrMissingSignature is returned when saving a flow without a signature.
	ErrMissingSignature = errors.New("signature is required before saving")

	// ErrFinalized is returned when mutating a session that was already saved.
	ErrFinalized = errors.New("diagnostic session is already saved")

	// ErrCompleted is returned when navigating or answering after completion.
	ErrCompleted = errors.New("diagnostic is already completed")

	// ErrHidden is returned when answering a question that is not visible.
	ErrHidden = errors.New("question is not visible")

	// ErrUnknownQuestion is returned for ids absent from the catalog.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrInvalidAnswer is returned when a value does not fit its question.
	ErrInvalidAnswer = errors.New("invalid answer")
)
