package edge

import "net/url"

// DefaultMessage is the rejection message of a Requirement that sets none.
const DefaultMessage = "Authentication required"

// Requirement protects a route. Empty Roles admits any authenticated
// identity.
type Requirement struct {
	Roles   []string
	Message string
}

func (r Requirement) message() string {
	if r.Message == "" {
		return DefaultMessage
	}
	return r.Message
}

// Route maps a ServeMux pattern to an upstream. A nil Auth makes it public.
type Route struct {
	Pattern  string
	Upstream *url.URL
	Auth     *Requirement
}
