// Package transform builds transformation URLs for the processing API.
//
// A Transformation is an ordered chain of tasks applied to a source (a file
// handle or an external URL) and rendered as CDN URL path segments:
//
//	https://cdn.filestackcontent.com/resize=width:800/sepia=tone:80/<handle>
//
// External URL sources additionally require the API key as the first path
// segment, and a security segment is included whenever a signed policy is
// configured:
//
//	https://cdn.filestackcontent.com/<apikey>/security=policy:<p>,signature:<s>/flip/<url>
//
// Task methods append to the chain and return the Transformation, so calls
// chain. A zero-valued task parameter struct renders the bare task name,
// which is the processing API's shorthand for "apply with defaults".
package transform

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/filestack/filestack-go/api"
	"github.com/filestack/filestack-go/security"
)

// Transformation is an ordered task chain over a single source.
type Transformation struct {
	host     string
	apiKey   string
	security security.Security
	source   string
	external bool
	tasks    []task
}

type task struct {
	name string
	args []arg
}

type arg struct {
	key   string
	value string
}

// New returns a Transformation over an existing file handle.
func New(handle string) *Transformation {
	return &Transformation{
		host:   api.DefaultCDNHost,
		source: handle,
	}
}

// NewFromURL returns a Transformation over an external URL source. The
// processing API requires the API key for external sources.
func NewFromURL(apiKey, externalURL string) *Transformation {
	return &Transformation{
		host:     api.DefaultCDNHost,
		apiKey:   apiKey,
		source:   externalURL,
		external: true,
	}
}

// WithHost overrides the CDN host, e.g. for cname configurations.
func (t *Transformation) WithHost(host string) *Transformation {
	t.host = strings.TrimSuffix(host, "/")
	return t
}

// WithSecurity attaches a signed policy to the rendered URL.
func (t *Transformation) WithSecurity(sec security.Security) *Transformation {
	t.security = sec
	return t
}

// Source returns the handle or external URL the chain applies to.
func (t *Transformation) Source() string {
	return t.source
}

// String renders the transformation URL.
func (t *Transformation) String() string {
	segments := make([]string, 0, len(t.tasks)+4)
	segments = append(segments, t.host)
	if t.external && t.apiKey != "" {
		segments = append(segments, t.apiKey)
	}
	if !t.security.IsZero() {
		segments = append(segments, t.security.TaskString())
	}
	for _, tk := range t.tasks {
		segments = append(segments, tk.render())
	}
	segments = append(segments, t.source)
	return strings.Join(segments, "/")
}

// URL renders and parses the transformation URL.
func (t *Transformation) URL() (*url.URL, error) {
	return url.Parse(t.String())
}

func (t *Transformation) add(name string, args ...arg) *Transformation {
	t.tasks = append(t.tasks, task{name: name, args: args})
	return t
}

func (tk task) render() string {
	if len(tk.args) == 0 {
		return tk.name
	}
	pairs := make([]string, 0, len(tk.args))
	for _, a := range tk.args {
		pairs = append(pairs, a.key+":"+a.value)
	}
	return tk.name + "=" + strings.Join(pairs, ",")
}

// arg constructors skip zero values so omitted optional fields never render

func intArg(args []arg, key string, v int) []arg {
	if v == 0 {
		return args
	}
	return append(args, arg{key, strconv.Itoa(v)})
}

func floatArg(args []arg, key string, v float64) []arg {
	if v == 0 {
		return args
	}
	return append(args, arg{key, strconv.FormatFloat(v, 'f', -1, 64)})
}

// taskValueEscaper percent-encodes the characters that delimit task segments
// so they can appear inside string values. Slashes stay literal; the
// processing API accepts them in path-style values.
var taskValueEscaper = strings.NewReplacer("%", "%25", ",", "%2C", ":", "%3A")

func stringArg(args []arg, key, v string) []arg {
	if v == "" {
		return args
	}
	return append(args, arg{key, taskValueEscaper.Replace(v)})
}

// rawStringArg renders v unescaped, for values whose commas are part of the
// task syntax, e.g. a "top,right" position.
func rawStringArg(args []arg, key, v string) []arg {
	if v == "" {
		return args
	}
	return append(args, arg{key, v})
}

func boolArg(args []arg, key string, v bool) []arg {
	if !v {
		return args
	}
	return append(args, arg{key, "true"})
}

func listArg(args []arg, key string, vs []int) []arg {
	if len(vs) == 0 {
		return args
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return append(args, arg{key, "[" + strings.Join(parts, ",") + "]"})
}
