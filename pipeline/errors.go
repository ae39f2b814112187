package pipeline

import "errors"

var (
	// ErrSourceRequired indicates no retrieval source was provided.
	ErrSourceRequired = errors.New("retrieval source is required")

	// ErrAnalyzerRequired indicates no analyzer was provided.
	ErrAnalyzerRequired = errors.New("analyzer is required")

	// ErrDispatcherReleased indicates a job was dispatched after Release.
	ErrDispatcherReleased = errors.New("dispatcher has been released")
)
