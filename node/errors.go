package node

import "errors"

// Runtime failures. Each is fatal to the evaluation that hit it and is
// returned wrapped with details.
var (
	ErrInvalidUnknownValueConversion = errors.New("invalid unknown value conversion")
	ErrEmptySequencePick             = errors.New("pick from empty sequence")
	ErrDeadOrMissingTarget           = errors.New("dead or missing target")
)

// ErrAbandon tells the row evaluator to give up on the current row and move
// to the next one. Rows translate it into "no decision".
var ErrAbandon = errors.New("row abandoned")

// ErrTypeTag is returned by Unbox when a node's runtime tag does not match.
var ErrTypeTag = errors.New("node type tag mismatch")
