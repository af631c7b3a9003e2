package chat

import "context"

// Client is the capability the router needs from a provider: send one user
// message, get the assistant text back. Implementations own model choice,
// transport and credentials; the router treats them as opaque.
type Client interface {
	Send(ctx context.Context, message string) (string, error)
}

// ClientFunc adapts a plain function to the Client interface.
type ClientFunc func(ctx context.Context, message string) (string, error)

// Send calls f.
func (f ClientFunc) Send(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}
