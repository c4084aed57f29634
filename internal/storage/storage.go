package storage

import "context"

// KV is the key-value persistence the cart and coupon stores sit on.
// Get reports ok=false for a missing key rather than an error.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Namespaced scopes every key of kv under ns, one namespace per browser session
func Namespaced(kv KV, ns string) KV {
	if ns == "" {
		return kv
	}
	return &namespaced{kv: kv, prefix: ns + ":"}
}

type namespaced struct {
	kv     KV
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.kv.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.kv.Remove(ctx, n.prefix+key)
}
