package sdk

import (
	"context"
	"fmt"
	"sort"

	"github.com/MyCarrier-DevOps/go-gitbridge/internal/operations"
)

type handler struct {
	args int
	call func(ctx context.Context, c *Client, args []string) Reply
}

// handlers maps the operation names a host calls by to their arity and
// implementation.
var handlers = map[string]handler{
	operations.OpInit: {1, func(ctx context.Context, c *Client, a []string) Reply {
		return c.Init(ctx, a[0])
	}},
	operations.OpInitBare: {1, func(ctx context.Context, c *Client, a []string) Reply {
		return c.InitBare(ctx, a[0])
	}},
	operations.OpClone: {2, func(ctx context.Context, c *Client, a []string) Reply {
		return c.Clone(ctx, a[0], a[1])
	}},
	operations.OpAddCommit: {2, func(ctx context.Context, c *Client, a []string) Reply {
		return c.Commit(ctx, a[0], a[1])
	}},
	operations.OpLatestMessage: {1, func(ctx context.Context, c *Client, a []string) Reply {
		return c.LatestMessage(ctx, a[0])
	}},
	operations.OpPushRemote: {2, func(ctx context.Context, c *Client, a []string) Reply {
		return c.PushRemote(ctx, a[0], a[1])
	}},
	operations.OpFastForward: {2, func(ctx context.Context, c *Client, a []string) Reply {
		return c.FastForward(ctx, a[0], a[1])
	}},
	operations.OpListReferences: {1, func(ctx context.Context, c *Client, a []string) Reply {
		return c.ListReferences(ctx, a[0])
	}},
	operations.OpCheckoutBranch: {2, func(ctx context.Context, c *Client, a []string) Reply {
		return c.CheckoutBranch(ctx, a[0], a[1])
	}},
}

// Operations lists the names accepted by Dispatch, sorted.
func Operations() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the operation registered under name with positional
// arguments. It fails only for an unknown name or a wrong argument count;
// operation failures are reported in the Reply.
func (c *Client) Dispatch(ctx context.Context, name string, args ...string) (Reply, error) {
	h, ok := handlers[name]
	if !ok {
		return Reply{}, fmt.Errorf("unknown operation %q", name)
	}
	if len(args) != h.args {
		return Reply{}, fmt.Errorf("operation %s takes %d arguments, got %d", name, h.args, len(args))
	}
	return h.call(ctx, c, args), nil
}
