// Package security builds and signs Filestack security policies.
//
// A policy is a JSON document describing what a client may do (which calls,
// which handle, size limits, storage path) and until when. The policy is
// base64url-encoded and signed with HMAC-SHA256 using the application secret.
// The encoded policy and hex signature travel together as query parameters or
// as a transformation task segment.
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Call names permitted in Policy.Call.
const (
	CallPick        = "pick"
	CallRead        = "read"
	CallStat        = "stat"
	CallWrite       = "write"
	CallWriteURL    = "writeUrl"
	CallStore       = "store"
	CallConvert     = "convert"
	CallRemove      = "remove"
	CallExif        = "exif"
	CallRunWorkflow = "runWorkflow"
)

var (
	errExpiryRequired = errors.New("policy expiry is required and must be in the future")
	errSecretRequired = errors.New("app secret is required to sign a policy")
)

// Policy describes the operations a signed client may perform.
// Zero-valued fields are omitted from the encoded document.
type Policy struct {
	// Expiry is the unix timestamp (seconds) after which the policy is invalid.
	Expiry int64 `json:"expiry"`

	// Call restricts the policy to the named calls. Empty means all calls.
	Call []string `json:"call,omitempty"`

	// Handle restricts the policy to a single file handle.
	Handle string `json:"handle,omitempty"`

	// URL is a regular expression restricting external URL sources.
	URL string `json:"url,omitempty"`

	// MaxSize and MinSize bound upload sizes in bytes.
	MaxSize int64 `json:"max_size,omitempty"`
	MinSize int64 `json:"min_size,omitempty"`

	// Path restricts stores to the given storage path. Must end with "/" to
	// denote a directory.
	Path string `json:"path,omitempty"`

	// Container restricts stores to the given bucket/container.
	Container string `json:"container,omitempty"`
}

// Security is an encoded policy and its signature, as sent to the API.
type Security struct {
	Policy    string
	Signature string
}

// NewSecurity encodes and signs policy with the application secret.
func NewSecurity(policy Policy, appSecret string) (Security, error) {
	if policy.Expiry <= time.Now().Unix() {
		return Security{}, errExpiryRequired
	}
	if appSecret == "" {
		return Security{}, errSecretRequired
	}

	raw, err := json.Marshal(policy)
	if err != nil {
		return Security{}, fmt.Errorf("encode policy: %w", err)
	}
	encoded := base64.URLEncoding.EncodeToString(raw)

	return Security{
		Policy:    encoded,
		Signature: Sign(encoded, appSecret),
	}, nil
}

// Sign returns the hex HMAC-SHA256 signature of an already-encoded policy.
func Sign(encodedPolicy, appSecret string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(encodedPolicy))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches encodedPolicy under appSecret.
func Verify(encodedPolicy, signature, appSecret string) bool {
	return hmac.Equal([]byte(Sign(encodedPolicy, appSecret)), []byte(signature))
}

// IsZero reports whether no security has been configured.
func (s Security) IsZero() bool {
	return s.Policy == "" && s.Signature == ""
}

// Values returns the policy pair as query parameters.
func (s Security) Values() url.Values {
	v := url.Values{}
	if s.IsZero() {
		return v
	}
	v.Set("policy", s.Policy)
	v.Set("signature", s.Signature)
	return v
}

// TaskString renders the policy pair as a processing-API task segment,
// e.g. "security=policy:<p>,signature:<s>".
func (s Security) TaskString() string {
	if s.IsZero() {
		return ""
	}
	return fmt.Sprintf("security=policy:%s,signature:%s", s.Policy, s.Signature)
}
