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


// Package ai provides the inference abstraction for commentlens.
//
// It defines the Analyzer interface that turns a ranked excerpt of audience
// comments into a structured, partially-optional insight report, plus the
// configuration shared by implementations.
//
// # Implementation Packages
//
//   - ai/openrouter: production implementation against OpenRouter's
//     OpenAI-compatible chat API
//   - ai/mock: test doubles for unit testing without a remote service
//
// Public constructors return interface types to enforce abstraction; mock
// constructors return concrete types so tests can inject behavior and make
// assertions.
//
// # Partial Output
//
// The Analysis type deliberately leaves every section optional. The model is
// free to omit sections; downstream assembly (package pipeline) fills
// defaults per field. A response that cannot be parsed at all is an error,
// never silently defaulted.
package ai
