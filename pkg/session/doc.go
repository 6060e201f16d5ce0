// Package session caches Notehub session tokens so clients can reuse an
// authenticated session instead of logging in on every API call.
//
// Notehub issues session tokens that expire after a fixed server-side TTL. A
// [Cache] remembers the token obtained for each credential along with its
// issuance time and hands it back to subsequent callers until a client-side
// TTL (shorter than the server's, to absorb request latency and clock drift)
// elapses. A stale or missing token triggers exactly one fresh login; callers
// asking for the same credential while that login is in flight wait for its
// result rather than issuing logins of their own.
//
// The Cache never discloses which credential produced a token, and tokens are
// held only in memory; nothing in this package touches disk.
package session
