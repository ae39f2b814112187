// Package httpapi exposes the service over HTTP: synchronous retrieval
// and analysis endpoints, the stored history, and the signed chat-ops
// entry points that hand work to the background dispatcher.
package httpapi
