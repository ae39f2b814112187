// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Failure classification for the whole system. Every error surfaced to a
// caller wraps exactly one of these sentinels so transports can map it to a
// status code or a user-facing message with errors.Is.
var (
	// ErrInvalidInput indicates a malformed or missing request field.
	// The caller must correct the request; retrying is pointless.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates a failed signature or secret check.
	// No detail about the failure is leaked to the caller.
	ErrUnauthenticated = errors.New("request not authenticated")

	// ErrUpstreamTimeout indicates an external job or inference call
	// exceeded its wall-clock budget.
	ErrUpstreamTimeout = errors.New("upstream operation timed out")

	// ErrUpstreamFailure indicates an external provider returned a
	// terminal error.
	ErrUpstreamFailure = errors.New("upstream provider failed")

	// ErrMalformedOutput indicates the inference result could not be
	// parsed as the expected structure.
	ErrMalformedOutput = errors.New("model output could not be parsed")

	// ErrNoContent indicates the video has zero retrievable comments.
	// This is a terminal empty-result state, not a pipeline failure.
	ErrNoContent = errors.New("no comments available")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("record not found")
)
