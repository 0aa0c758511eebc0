// Package edge is the externally facing half of the platform's access
// control. It holds no signing key: every protected request is checked by a
// remote ValidateToken call to the auth service, bounded by a deadline, and
// then matched against the route's role allow-list before it is proxied
// upstream.
//
// Routes are declared once at startup in a table of Route values. A route
// without a Requirement is public and is forwarded without looking at the
// Authorization header at all.
package edge
