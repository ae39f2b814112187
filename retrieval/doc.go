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


// Package retrieval fetches audience comments for a video from an external
// provider.
//
// Two interchangeable strategies satisfy the same Source contract and are
// selected by configuration:
//
//   - actor: submits a scraping job to a hosted actor and polls its status
//     on a fixed interval until completion, bounded by a wall-clock ceiling
//   - pages: walks the provider's paged comment API, accumulating pages
//     until the cap is reached or pages run out
//
// The pages strategy prefers partial data over total failure: a page
// request that fails after at least one successful page returns the
// accumulated set as success. Both strategies clip the final sequence to
// the configured cap even when the provider over-delivers.
package retrieval
