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


// Package pipeline sequences the analysis of one video: comment retrieval,
// ranking, bounded inference, result assembly, best-effort persistence and
// asynchronous progress notification.
//
// Each trigger creates one Job. A Job's stage only moves forward; a job
// that reaches Failed never resumes, and a new trigger always creates a
// new job. Stages run strictly sequentially within one job, and jobs never
// coordinate with each other.
//
// The failure policy is per stage: retrieval and inference errors are
// terminal for the job, a persistence error is logged and swallowed so the
// primary result still reaches the caller, and notification errors never
// propagate back into the pipeline.
//
// Chat-ops triggers run detached from the inbound request through the
// Dispatcher, which owns a worker pool and gives every run its own
// cancellation context bounded by the total job budget.
package pipeline
