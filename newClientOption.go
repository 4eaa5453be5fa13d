package filestack

import (
	"github.com/filestack/filestack-go/api"
	"github.com/filestack/filestack-go/options"
	"github.com/filestack/filestack-go/security"
)

const (
	optionNameSecurity         = "security"
	optionNameCname            = "cname"
	optionNameSessionCache     = "sessionCache"
	optionNameSessionCachePath = "sessionCachePath"
	optionNameHTTPClient       = "httpClient"
)

// WithSecurity attaches a signed policy to every operation that accepts one.
// Required for Remove, RemoveMetadata, and Overwrite.
func WithSecurity(sec security.Security) options.NewClientOption[Client] {
	return &securityOpt{security: sec}
}

type securityOpt struct {
	security security.Security
}

func (o *securityOpt) Apply(c *Client) {
	c.security = o.security
}

func (o *securityOpt) NewClientOptionName() string {
	return optionNameSecurity
}

// WithCname routes all service traffic through an account's custom domain,
// e.g. "fs.example.com".
func WithCname(cname string) options.NewClientOption[Client] {
	return &cnameOpt{cname: cname}
}

type cnameOpt struct {
	cname string
}

func (o *cnameOpt) Apply(c *Client) {
	c.cname = o.cname
}

func (o *cnameOpt) NewClientOptionName() string {
	return optionNameCname
}

// WithSessionCache enables the on-disk session cache under ~/.filestack,
// letting auth sessions survive process restarts and be invalidated by
// Logout.
func WithSessionCache(enabled bool) options.NewClientOption[Client] {
	return &sessionCacheOpt{enabled: enabled}
}

type sessionCacheOpt struct {
	enabled bool
}

func (o *sessionCacheOpt) Apply(c *Client) {
	c.sessionCache = o.enabled
}

func (o *sessionCacheOpt) NewClientOptionName() string {
	return optionNameSessionCache
}

// WithSessionCachePath enables the session cache at a custom file path.
func WithSessionCachePath(path string) options.NewClientOption[Client] {
	return &sessionCachePathOpt{path: path}
}

type sessionCachePathOpt struct {
	path string
}

func (o *sessionCachePathOpt) Apply(c *Client) {
	c.sessionCache = true
	c.sessionPath = o.path
}

func (o *sessionCachePathOpt) NewClientOptionName() string {
	return optionNameSessionCachePath
}

// WithHTTPClient substitutes the transport used for every request.
func WithHTTPClient(doer api.Doer) options.NewClientOption[Client] {
	return &httpClientOpt{doer: doer}
}

type httpClientOpt struct {
	doer api.Doer
}

func (o *httpClientOpt) Apply(c *Client) {
	c.httpClient = o.doer
}

func (o *httpClientOpt) NewClientOptionName() string {
	return optionNameHTTPClient
}
