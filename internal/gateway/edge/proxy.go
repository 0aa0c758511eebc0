package edge

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
)

// Identity headers set on proxied requests. Client supplied copies are
// always removed.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
	HeaderUserRole  = "X-User-Role"
	HeaderUserEmail = "X-User-Email"
)

var identityHeaders = []string{HeaderUserID, HeaderUserName, HeaderUserRole, HeaderUserEmail}

// NewProxy forwards to upstream, attaching the gate's identity as headers.
func NewProxy(upstream *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()

			for _, h := range identityHeaders {
				pr.Out.Header.Del(h)
			}
			if id, ok := IdentityFromContext(pr.In.Context()); ok {
				pr.Out.Header.Set(HeaderUserID, strconv.FormatInt(id.UserID, 10))
				pr.Out.Header.Set(HeaderUserName, id.Username)
				pr.Out.Header.Set(HeaderUserRole, id.Role)
				pr.Out.Header.Set(HeaderUserEmail, id.Email)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slogx.FromContext(r.Context()).Error("upstream request failed",
				"upstream", upstream.Host,
				"error", err,
			)
			httpx.WriteError(w, http.StatusBadGateway, "Upstream service unavailable")
		},
	}
}
