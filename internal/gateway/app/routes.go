package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aussiebroadwan/gatekeep/internal/gateway/edge"
)

// routeFile is the on-disk route table:
//
//	[[route]]
//	pattern  = "DELETE /api/v1/labs/{id}"
//	upstream = "http://labs:8080"
//
//	  [route.auth]
//	  roles   = ["ADMIN"]
//	  message = "Only administrators can delete labs"
//
// A route without an auth table is public.
type routeFile struct {
	Routes []routeEntry `toml:"route"`
}

type routeEntry struct {
	Pattern  string     `toml:"pattern"`
	Upstream string     `toml:"upstream"`
	Auth     *authEntry `toml:"auth"`
}

type authEntry struct {
	Roles   []string `toml:"roles"`
	Message string   `toml:"message"`
}

// LoadRoutes reads the route table at path.
func LoadRoutes(path string) ([]edge.Route, error) {
	var file routeFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("decode %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return file.routes()
}

func (f routeFile) routes() ([]edge.Route, error) {
	if len(f.Routes) == 0 {
		return nil, errors.New("route table is empty")
	}

	var errs []error
	out := make([]edge.Route, 0, len(f.Routes))
	for i, e := range f.Routes {
		pattern := strings.TrimSpace(e.Pattern)
		if pattern == "" {
			errs = append(errs, fmt.Errorf("route %d: pattern is required", i))
			continue
		}

		upstream, err := url.Parse(e.Upstream)
		if err != nil || (upstream.Scheme != "http" && upstream.Scheme != "https") || upstream.Host == "" {
			errs = append(errs, fmt.Errorf("route %q: upstream %q must be an absolute http(s) URL", pattern, e.Upstream))
			continue
		}

		rt := edge.Route{Pattern: pattern, Upstream: upstream}
		if e.Auth != nil {
			rt.Auth = &edge.Requirement{Roles: e.Auth.Roles, Message: e.Auth.Message}
			for _, role := range e.Auth.Roles {
				if strings.TrimSpace(role) == "" {
					errs = append(errs, fmt.Errorf("route %q: empty role", pattern))
				}
			}
		}
		out = append(out, rt)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
