// Package options provides the functional option interfaces shared across the SDK.
package options

// NewClientOption interface contains the functions that must be implemented by any
// custom option used to configure a client at construction time.
// Example:
// ```
//
//	type timeoutOpt struct{ d time.Duration }
//	func (o *timeoutOpt) Apply(c *Client)              { c.timeout = o.d }
//	func (o *timeoutOpt) NewClientOptionName() string  { return "timeout" }
//
// ```
type NewClientOption[T any] interface {
	// Apply applies the option to the client under construction.
	Apply(c *T)

	// NewClientOptionName returns the name of the option.
	NewClientOptionName() string
}

// ApplyOptions applies each option, in order, to the client under construction.
func ApplyOptions[T any](c *T, opts ...NewClientOption[T]) {
	for _, opt := range opts {
		opt.Apply(c)
	}
}
