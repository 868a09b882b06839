// Package cache holds the in-memory response cache for files served from disk.
// Each Entry pairs the raw bytes of one filesystem path with its modification
// time, MIME type and a lazily built gzip variant. PathCache resolves request
// paths below a root directory into entries kept in a table; SingleFile binds
// exactly one entry at construction. Both re-read a file only when its
// modification time moves forward, and both serialize table, refresh and
// compression work behind a single mutex per instance. The HTTP layer depends
// on Source/Payload and never touches the filesystem itself.
package cache
