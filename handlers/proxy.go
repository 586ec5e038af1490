package handlers

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"saas_juridico_gateway/services/backend"

	"github.com/labstack/echo/v4"
)

// maxProxyBody bounds the request body relayed to the backend
const maxProxyBody = 10 << 20

// ProxyResources are the backend collections exposed through the proxy
var ProxyResources = []string{"clients", "processes", "specialties", "users", "companies"}

// Forwarder relays raw requests to the backend. *backend.Client implements it.
type Forwarder interface {
	Forward(ctx context.Context, fr backend.ForwardRequest) (*backend.ForwardResponse, error)
}

// ResourceProxy forwards every request under one resource to the backend
type ResourceProxy struct {
	Resource    string
	NotFoundKey string
	backend     Forwarder
}

// NewResourceProxy creates the proxy for a backend collection
func NewResourceProxy(resource string, fw Forwarder) *ResourceProxy {
	return &ResourceProxy{
		Resource:    resource,
		NotFoundKey: "errors.not_found." + resource,
		backend:     fw,
	}
}

// RegisterResourceRoutes mounts a proxy for each of ProxyResources on g
func RegisterResourceRoutes(g *echo.Group, fw Forwarder) {
	for _, resource := range ProxyResources {
		p := NewResourceProxy(resource, fw)
		g.Any("/"+resource, p.Handle)
		g.Any("/"+resource+"/*", p.Handle)
	}
}

// Handle relays the request and translates backend failures
// ANY /api/v1/company/{resource}[/...]
func (p *ResourceProxy) Handle(c echo.Context) error {
	req := c.Request()
	ctx := req.Context()

	sub := strings.Trim(c.Param("*"), "/")
	path := "/" + p.Resource
	if sub != "" {
		path += "/" + sub
	}

	query := req.URL.Query()
	collection := sub == ""

	// Delete by query parameter: DELETE /clients?id=12 -> /clients/12
	if req.Method == http.MethodDelete && collection {
		id := strings.TrimSpace(query.Get("id"))
		if id == "" {
			return jsonError(c, http.StatusBadRequest, "errors.missing_id")
		}
		path += "/" + url.PathEscape(id)
		query.Del("id")
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxProxyBody+1))
	if err != nil {
		log.Printf("[PROXY] %s %s: failed to read body: %v", req.Method, path, err)
		return jsonError(c, http.StatusInternalServerError, "errors.internal")
	}
	if len(body) > maxProxyBody {
		return jsonError(c, http.StatusRequestEntityTooLarge, "errors.payload_too_large")
	}

	resp, err := p.backend.Forward(ctx, backend.ForwardRequest{
		Method: req.Method,
		Path:   path,
		Query:  query,
		Header: req.Header,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return p.upstreamFailure(c, path, err)
	}

	status := resp.StatusCode
	if req.Method == http.MethodPost && collection && status == http.StatusOK {
		status = http.StatusCreated
	}

	if status == http.StatusNoContent || len(resp.Body) == 0 {
		return c.NoContent(status)
	}

	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(status, contentType, resp.Body)
}

func (p *ResourceProxy) upstreamFailure(c echo.Context, path string, err error) error {
	ue, ok := backend.AsUpstreamError(err)
	if !ok {
		log.Printf("[PROXY] %s %s: %v", c.Request().Method, path, err)
		return jsonError(c, http.StatusInternalServerError, "errors.internal")
	}

	if ue.StatusCode == http.StatusNotFound {
		return jsonError(c, http.StatusNotFound, p.NotFoundKey)
	}

	if ue.Detail != "" {
		return echo.NewHTTPError(ue.StatusCode, ue.Detail)
	}
	return jsonError(c, ue.StatusCode, "errors.upstream")
}
