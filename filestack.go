package filestack

import (
	"context"
	"net/url"
	"strings"

	"github.com/filestack/filestack-go/api"
	"github.com/filestack/filestack-go/options"
	"github.com/filestack/filestack-go/security"
	"github.com/filestack/filestack-go/session"
	"github.com/filestack/filestack-go/transform"
	"github.com/filestack/filestack-go/upload"
	"github.com/filestack/filestack-go/utils"
)

// Client is the entry point to every API operation. Construct it with
// NewClient; the zero value is not usable.
type Client struct {
	apiKey       string
	security     security.Security
	cname        string
	sessionCache bool
	sessionPath  string
	httpClient   api.Doer

	api      *api.Client
	uploader *upload.Uploader
	sessions *session.Cache
}

// NewClient returns a Client for the given API key.
func NewClient(apiKey string, opts ...options.NewClientOption[Client]) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{apiKey: apiKey}
	options.ApplyOptions(c, opts...)

	hosts := api.DefaultHosts()
	if c.cname != "" {
		hosts = api.CnameHosts(c.cname)
	}
	c.api = api.NewClient(c.httpClient, hosts)
	c.uploader = upload.NewUploader(c.api, c.apiKey, c.security)

	if c.sessionCache {
		if err := c.initSessionCache(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) initSessionCache() error {
	if c.sessionPath != "" {
		c.sessions = session.NewCacheAt(c.sessionPath)
	} else {
		cache, err := session.NewCache()
		if err != nil {
			return err
		}
		c.sessions = cache
	}

	// a previously stored session is reattached transparently
	if s, err := c.sessions.Load(c.apiKey); err == nil && s != nil {
		c.api.SetSessionToken(s.Token)
	}
	return nil
}

// APIKey returns the key the client was built with.
func (c *Client) APIKey() string {
	return c.apiKey
}

// Security returns the signed policy configured on the client, if any.
func (c *Client) Security() security.Security {
	return c.security
}

// Transform returns a transformation URL builder over an existing file
// handle, preconfigured with the client's CDN host and security.
func (c *Client) Transform(handle string) *transform.Transformation {
	t := transform.New(handle).WithHost(c.api.Hosts().CDN)
	if !c.security.IsZero() {
		t = t.WithSecurity(c.security)
	}
	return t
}

// TransformURL returns a transformation URL builder over an external URL
// source. The processing API requires a security policy for external
// sources on most accounts.
func (c *Client) TransformURL(externalURL string) *transform.Transformation {
	t := transform.NewFromURL(c.apiKey, externalURL).WithHost(c.api.Hosts().CDN)
	if !c.security.IsZero() {
		t = t.WithSecurity(c.security)
	}
	return t
}

// Preview returns the CDN document-preview URL for a handle.
func (c *Client) Preview(handle string) string {
	segments := []string{c.api.Hosts().CDN}
	if !c.security.IsZero() {
		segments = append(segments, c.security.TaskString())
	}
	segments = append(segments, "preview", handle)
	return strings.Join(segments, "/")
}

// StoreSession attaches a picker/auth session token to subsequent requests
// and, when the session cache is enabled, persists it for later runs.
func (c *Client) StoreSession(token string) error {
	c.api.SetSessionToken(token)
	if c.sessions == nil {
		return nil
	}
	return c.sessions.Save(session.Session{APIKey: c.apiKey, Token: token})
}

// Logout invalidates the cached auth session with the service and clears it
// from the on-disk cache. Without an enabled session cache it is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}

	s, err := c.sessions.Load(c.apiKey)
	if err != nil {
		return utils.WrapLogoutError(err)
	}
	if s != nil {
		values := url.Values{}
		values.Set("apikey", c.apiKey)
		values.Set("token", s.Token)
		if err := c.api.PostForm(ctx, c.api.Hosts().CDN+"/auth/logout", values, nil); err != nil {
			return utils.WrapLogoutError(err)
		}
	}

	c.api.SetSessionToken("")
	if err := c.sessions.Clear(c.apiKey); err != nil {
		return utils.WrapLogoutError(err)
	}
	return nil
}
