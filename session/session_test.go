package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type sessionTestSuite struct {
	suite.Suite
	cache *Cache
	path  string
}

func (s *sessionTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "session.json")
	s.cache = NewCacheAt(s.path)
}

func (s *sessionTestSuite) TestLoadMissing() {
	got, err := s.cache.Load("mykey")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *sessionTestSuite) TestSaveAndLoad() {
	s.Require().NoError(s.cache.Save(Session{APIKey: "mykey", Token: "tok-1"}))

	got, err := s.cache.Load("mykey")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("tok-1", got.Token)
	s.False(got.SavedAt.IsZero())

	// other keys are unaffected
	other, err := s.cache.Load("otherkey")
	s.Require().NoError(err)
	s.Nil(other)
}

func (s *sessionTestSuite) TestSaveRequiresAPIKey() {
	s.Error(s.cache.Save(Session{Token: "tok-1"}))
}

func (s *sessionTestSuite) TestExpiredSessionNotReturned() {
	s.Require().NoError(s.cache.Save(Session{
		APIKey: "mykey",
		Token:  "tok-1",
		Expiry: time.Now().Add(-time.Minute),
	}))

	got, err := s.cache.Load("mykey")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *sessionTestSuite) TestClear() {
	s.Require().NoError(s.cache.Save(Session{APIKey: "mykey", Token: "tok-1"}))
	s.Require().NoError(s.cache.Clear("mykey"))

	got, err := s.cache.Load("mykey")
	s.Require().NoError(err)
	s.Nil(got)

	// clearing an absent key is not an error
	s.NoError(s.cache.Clear("mykey"))
}

func (s *sessionTestSuite) TestCorruptCacheTreatedAsEmpty() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0o700))
	s.Require().NoError(os.WriteFile(s.path, []byte("not json"), 0o600))

	got, err := s.cache.Load("mykey")
	s.Require().NoError(err)
	s.Nil(got)

	s.NoError(s.cache.Save(Session{APIKey: "mykey", Token: "tok-1"}))
}

func TestSessionCache(t *testing.T) {
	suite.Run(t, new(sessionTestSuite))
}
