// Package gateway is the single public entry point. It maps path
// prefixes to logical service names and proxies each request to an
// instance resolved through the registry at request time.
package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"parent-portal/registry"
	"parent-portal/remote"
)

// route binds one path prefix to a logical service. An optional rewrite
// replaces the matched prefix on the outgoing request.
type route struct {
	prefix  string
	service string
	rewrite string
}

// Gateway proxies by prefix. The route table is fixed at construction;
// only instance resolution is dynamic.
type Gateway struct {
	resolver registry.Resolver
	routes   []route
	log      *slog.Logger
}

func New(resolver registry.Resolver, log *slog.Logger) *Gateway {
	return &Gateway{
		resolver: resolver,
		log:      log,
		routes: []route{
			{prefix: "/api/users", service: remote.ServiceUsers},
			{prefix: "/api/students", service: remote.ServiceStudents},
			{prefix: "/api/payments", service: remote.ServicePayments},
			{prefix: "/api/communication", service: remote.ServiceCommunication},
			{prefix: "/api/admin", service: remote.ServiceAdmin},
			// swagger aliases: /v3/api-docs/{alias} serves the aliased
			// service's own /v3/api-docs
			{prefix: "/v3/api-docs/" + remote.ServiceUsers, service: remote.ServiceUsers, rewrite: "/v3/api-docs"},
			{prefix: "/v3/api-docs/" + remote.ServiceStudents, service: remote.ServiceStudents, rewrite: "/v3/api-docs"},
			{prefix: "/v3/api-docs/" + remote.ServicePayments, service: remote.ServicePayments, rewrite: "/v3/api-docs"},
			{prefix: "/v3/api-docs/" + remote.ServiceCommunication, service: remote.ServiceCommunication, rewrite: "/v3/api-docs"},
			{prefix: "/v3/api-docs/" + remote.ServiceAdmin, service: remote.ServiceAdmin, rewrite: "/v3/api-docs"},
		},
	}
}

func (g *Gateway) match(path string) (route, bool) {
	for _, rt := range g.routes {
		if path == rt.prefix || strings.HasPrefix(path, rt.prefix+"/") {
			return rt, true
		}
	}
	return route{}, false
}

// ServeHTTP resolves the target instance per request, so a registration
// change takes effect immediately. Resolution failure answers 503: the
// route exists, its backend does not.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt, ok := g.match(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	inst, err := g.resolver.Resolve(rt.service)
	if err != nil {
		g.log.Warn("no instance for route", "service", rt.service, "path", r.URL.Path)
		http.Error(w, "service unavailable: "+rt.service, http.StatusServiceUnavailable)
		return
	}

	target := &url.URL{Scheme: "http", Host: inst.Addr}
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = inst.Addr
			if rt.rewrite != "" {
				pr.Out.URL.Path = rt.rewrite + strings.TrimPrefix(r.URL.Path, rt.prefix)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			g.log.Error("proxy failed", "service", rt.service, "error", err)
			http.Error(w, "bad gateway: "+rt.service, http.StatusBadGateway)
		},
	}
	proxy.ServeHTTP(w, r)
}
