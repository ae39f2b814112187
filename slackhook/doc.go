// Package slackhook implements the chat-ops surface: request signature
// verification, slash command parsing, and result delivery back to the
// workspace via response URLs.
//
// Verification runs on the raw request body before any parsing, using the
// v0 HMAC-SHA256 scheme with a five minute replay window. Delivery is
// fire-and-forget: each notification is posted at most once and a failed
// post is the caller's to log, not retry.
package slackhook
