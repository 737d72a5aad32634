package sqltrail

import (
	"context"
	"net"
	"net/http"
)

// Operator identifies who issued a statement. Empty fields are absent.
type Operator struct {
	Name    string
	Address string
}

// merge returns o with every non-empty field of other applied on top.
func (o Operator) merge(other Operator) Operator {
	if other.Name != "" {
		o.Name = other.Name
	}
	if other.Address != "" {
		o.Address = other.Address
	}
	return o
}

// operatorKey is an unexported context key type.
type operatorKey struct{}
type skipKey struct{}

// WithOperator attaches an operator name to the context.
func WithOperator(ctx context.Context, name string) context.Context {
	o, _ := OperatorFromContext(ctx)
	o.Name = name
	return context.WithValue(ctx, operatorKey{}, o)
}

// WithOperatorAddress attaches the operator's origin address to the context.
func WithOperatorAddress(ctx context.Context, addr string) context.Context {
	o, _ := OperatorFromContext(ctx)
	o.Address = addr
	return context.WithValue(ctx, operatorKey{}, o)
}

// OperatorFromContext extracts the operator from context.
func OperatorFromContext(ctx context.Context) (Operator, bool) {
	o, ok := ctx.Value(operatorKey{}).(Operator)
	return o, ok
}

// WithSkip marks the context so sqltrail bypasses capture for subsequent statements.
func WithSkip(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipKey{}, true)
}

// extractSkip extracts skip flag from context.
func extractSkip(ctx context.Context) bool {
	if v, ok := ctx.Value(skipKey{}).(bool); ok {
		return v
	}
	return false
}

// OperatorMiddleware records the client address of each request as the operator
// address, unless one is already present in the request context.
func OperatorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if o, _ := OperatorFromContext(ctx); o.Address == "" && r.RemoteAddr != "" {
			addr := r.RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}
			r = r.WithContext(WithOperatorAddress(ctx, addr))
		}
		next.ServeHTTP(w, r)
	})
}
