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


// Package openrouter implements ai.Analyzer against OpenRouter's
// OpenAI-compatible chat completions API.
//
// Every call runs under a hard wall-clock deadline (Config.Timeout). The
// deadline must sit strictly inside the enclosing trigger's total budget so
// a slow model surfaces as a clean timeout error instead of the process
// being cut off mid-call by the platform.
package openrouter
