package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/filestack/filestack-go/mocks"
)

type clientTestSuite struct {
	suite.Suite
}

func (s *clientTestSuite) TestHosts() {
	s.Run("defaults", func() {
		c := NewClient(nil, Hosts{})
		s.Equal(DefaultAPIHost, c.Hosts().API)
		s.Equal(DefaultUploadHost, c.Hosts().Upload)
		s.Equal(DefaultCDNHost, c.Hosts().CDN)
		s.Equal(DefaultProcessHost, c.Hosts().Process)
	})

	s.Run("cname rewrites every host", func() {
		h := CnameHosts("fs.example.com")
		s.Equal("https://www.fs.example.com", h.API)
		s.Equal("https://upload.fs.example.com", h.Upload)
		s.Equal("https://cdn.fs.example.com", h.CDN)
		s.Equal("https://process.fs.example.com", h.Process)
	})
}

func (s *clientTestSuite) TestDefaultHeaders() {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), DefaultHosts())
	c.SetSessionToken("sess-token")
	s.Require().NoError(c.GetJSON(context.Background(), srv.URL, &struct{}{}))

	s.Equal("filestack-go/"+Version, got.Get("User-Agent"))
	s.Equal("go-"+Version, got.Get("Filestack-Source"))
	s.NotEmpty(got.Get("Filestack-Trace-Id"))
	s.Equal("sess-token", got.Get("Filestack-Session"))
}

func (s *clientTestSuite) TestPostForm() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(r.ParseForm())
		s.Equal("mykey", r.PostForm.Get("apikey"))
		_, _ = w.Write([]byte(`{"handle":"abc"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), DefaultHosts())
	out := struct {
		Handle string `json:"handle"`
	}{}
	err := c.PostForm(context.Background(), srv.URL, url.Values{"apikey": {"mykey"}}, &out)
	s.Require().NoError(err)
	s.Equal("abc", out.Handle)
}

func (s *clientTestSuite) TestPostFormStatus() {
	status := http.StatusAccepted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(`{"handle":"abc"}`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), DefaultHosts())
	out := struct {
		Handle string `json:"handle"`
	}{}

	code, err := c.PostFormStatus(context.Background(), srv.URL, url.Values{}, &out)
	s.Require().NoError(err)
	s.Equal(http.StatusAccepted, code)
	s.Empty(out.Handle, "202 bodies are not decoded")

	status = http.StatusOK
	code, err = c.PostFormStatus(context.Background(), srv.URL, url.Values{}, &out)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, code)
	s.Equal("abc", out.Handle)
}

func (s *clientTestSuite) TestPut() {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPut, r.Method)
		s.Equal("application/octet-stream", r.Header.Get("Content-Type"))
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"etag-1"`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), DefaultHosts())
	etag, err := c.Put(context.Background(), srv.URL,
		map[string]string{"Content-Type": "application/octet-stream"},
		bytes.NewReader([]byte("hello")), 5)
	s.Require().NoError(err)
	s.Equal("etag-1", etag)
	s.Equal("hello", string(body))
}

func (s *clientTestSuite) TestResponseError() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), DefaultHosts())
	_, err := c.Get(context.Background(), srv.URL)
	s.Require().Error(err)

	var respErr *ResponseError
	s.Require().ErrorAs(err, &respErr)
	s.Equal(http.StatusTooManyRequests, respErr.StatusCode)
	s.Equal("slow down", respErr.Body)
	s.Contains(respErr.Error(), "429")

	delay, ok := RetryAfter(err)
	s.True(ok)
	s.Equal(2*time.Second, delay)
}

func (s *clientTestSuite) TestDoerMock() {
	doer := mocks.NewDoer(s.T())
	doer.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte("ok"))),
	}, nil).Once()

	c := NewClient(doer, DefaultHosts())
	resp, err := c.Get(context.Background(), "https://example.invalid/file")
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint:errcheck

	got, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Equal("ok", string(got))
}

func (s *clientTestSuite) TestDecodeErrorWithMockedDoer() {
	// mocked responses carry no Request; the decode error still names the URL
	doer := mocks.NewDoer(s.T())
	doer.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte("not json"))),
	}, nil).Once()

	c := NewClient(doer, DefaultHosts())
	err := c.GetJSON(context.Background(), "https://example.invalid/file", &struct{}{})
	s.Require().Error(err)
	s.ErrorContains(err, "https://example.invalid/file")
}

func (s *clientTestSuite) TestIsRetryable() {
	s.False(IsRetryable(nil))
	s.False(IsRetryable(context.Canceled))
	s.False(IsRetryable(&ResponseError{StatusCode: http.StatusForbidden}))
	s.False(IsRetryable(&ResponseError{StatusCode: http.StatusNotFound}))
	s.True(IsRetryable(&ResponseError{StatusCode: http.StatusInternalServerError}))
	s.True(IsRetryable(&ResponseError{StatusCode: http.StatusBadGateway}))
	s.True(IsRetryable(&ResponseError{StatusCode: http.StatusRequestTimeout}))
	s.True(IsRetryable(&ResponseError{StatusCode: http.StatusTooManyRequests}))
	s.True(IsRetryable(errors.New("connection reset by peer")))
}

func TestClient(t *testing.T) {
	suite.Run(t, new(clientTestSuite))
}
