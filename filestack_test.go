package filestack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/filestack/filestack-go/api"
	"github.com/filestack/filestack-go/security"
	"github.com/filestack/filestack-go/upload"
)

const testHandle = "bfTNCXh1QLerVQlvkYzZ"

var testSecurity = security.Security{Policy: "cG9saWN5", Signature: "c2lnbmF0dXJl"}

// pointClientAt rewires an already-constructed client at a test server.
func pointClientAt(c *Client, srv *httptest.Server) {
	c.api = api.NewClient(srv.Client(), api.Hosts{
		API:     srv.URL,
		Upload:  srv.URL,
		CDN:     srv.URL,
		Process: srv.URL,
	})
	c.uploader = upload.NewUploader(c.api, c.apiKey, c.security)
}

type clientTestSuite struct {
	suite.Suite
}

func (s *clientTestSuite) TestNewClient() {
	s.Run("requires an api key", func() {
		_, err := NewClient("")
		s.ErrorIs(err, ErrAPIKeyRequired)
	})

	s.Run("defaults", func() {
		c, err := NewClient("MYAPIKEY")
		s.Require().NoError(err)
		s.Equal("MYAPIKEY", c.APIKey())
		s.True(c.Security().IsZero())
		s.Equal(api.DefaultCDNHost, c.api.Hosts().CDN)
	})

	s.Run("cname rewrites hosts", func() {
		c, err := NewClient("MYAPIKEY", WithCname("fs.example.com"))
		s.Require().NoError(err)
		s.Equal("https://cdn.fs.example.com", c.api.Hosts().CDN)
		s.Equal("https://upload.fs.example.com", c.api.Hosts().Upload)
	})

	s.Run("security is applied", func() {
		c, err := NewClient("MYAPIKEY", WithSecurity(testSecurity))
		s.Require().NoError(err)
		s.Equal(testSecurity, c.Security())
	})
}

func (s *clientTestSuite) TestPreview() {
	c, err := NewClient("MYAPIKEY")
	s.Require().NoError(err)
	s.Equal("https://cdn.filestackcontent.com/preview/"+testHandle, c.Preview(testHandle))

	c, err = NewClient("MYAPIKEY", WithSecurity(testSecurity))
	s.Require().NoError(err)
	s.Equal(
		"https://cdn.filestackcontent.com/security=policy:cG9saWN5,signature:c2lnbmF0dXJl/preview/"+testHandle,
		c.Preview(testHandle),
	)
}

func (s *clientTestSuite) TestTransform() {
	c, err := NewClient("MYAPIKEY", WithCname("fs.example.com"), WithSecurity(testSecurity))
	s.Require().NoError(err)

	url := c.Transform(testHandle).Monochrome().String()
	s.Equal(
		"https://cdn.fs.example.com/security=policy:cG9saWN5,signature:c2lnbmF0dXJl/monochrome/"+testHandle,
		url,
	)

	url = c.TransformURL("https://example.com/cat.jpg").Flip().String()
	s.Contains(url, "https://cdn.fs.example.com/MYAPIKEY/")
	s.Contains(url, "/flip/https://example.com/cat.jpg")
}

func (s *clientTestSuite) TestSessionLifecycle() {
	var logoutForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/auth/logout", r.URL.Path)
		s.Require().NoError(r.ParseForm())
		logoutForm = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cachePath := filepath.Join(s.T().TempDir(), "session.json")
	c, err := NewClient("MYAPIKEY", WithSessionCachePath(cachePath))
	s.Require().NoError(err)
	pointClientAt(c, srv)

	s.Require().NoError(c.StoreSession("tok-1"))

	// a fresh client picks the session back up from disk
	c2, err := NewClient("MYAPIKEY", WithSessionCachePath(cachePath))
	s.Require().NoError(err)
	pointClientAt(c2, srv)

	s.Require().NoError(c2.Logout(context.Background()))
	s.Equal([]string{"MYAPIKEY"}, logoutForm["apikey"])
	s.Equal([]string{"tok-1"}, logoutForm["token"])

	// the cached session is gone; a second logout makes no request
	logoutForm = nil
	s.Require().NoError(c2.Logout(context.Background()))
	s.Nil(logoutForm)
}

func (s *clientTestSuite) TestLogoutWithoutSessionCache() {
	c, err := NewClient("MYAPIKEY")
	s.Require().NoError(err)
	s.NoError(c.Logout(context.Background()))
}

func TestClient(t *testing.T) {
	suite.Run(t, new(clientTestSuite))
}
