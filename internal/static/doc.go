// Package static answers requests for matched sites. It owns one cache.Source
// per configured site, maps cache errors onto HTTP status codes, negotiates
// gzip, and writes conditional-GET aware responses through fiber.
package static
