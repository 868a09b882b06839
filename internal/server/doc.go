// Package server hosts the Fiber HTTP service, request middleware chain, and
// the site registry that maps Host + mount path onto configured static sites.
// The app bootstraps Fiber, attaches recover and request-id middleware, injects
// the SiteRegistry built from config, and hands matched requests to a
// SiteHandler (internal/static in production, recorders in tests). Keep exports
// narrow and accept explicit dependencies.
package server
