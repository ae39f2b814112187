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


// Package storage provides the persistence abstraction for commentlens.
//
// It defines the repository interface for completed analyses, decoupling
// the pipeline and the HTTP surface from the storage implementation.
// Public constructors in implementation packages return the interface type
// to enforce abstraction.
//
// Persistence is best-effort by design: a failed save is logged and the
// primary result is still delivered to the caller. Consumers must not
// treat a missing history entry as pipeline failure.
//
// All repository implementations must be thread-safe and accept a
// context.Context on every operation.
package storage
