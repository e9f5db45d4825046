package cache

import "context"

// Result is the typed view of State.
type Result[T any] struct {
	Data       T
	Stale      bool
	Refetching bool
}

// Query is Fetch with a typed fetcher and result.
func Query[T any](ctx context.Context, q *QueryClient, key Key, fetch func(ctx context.Context) (T, error)) (Result[T], error) {
	st, err := q.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return Result[T]{}, err
	}
	data, _ := st.Data.(T)
	return Result[T]{Data: data, Stale: st.Stale, Refetching: st.Refetching}, nil
}

// Get returns the typed cached value of key.
func Get[T any](q *QueryClient, key Key) (T, bool) {
	v, ok := q.GetData(key)
	if !ok {
		var zero T
		return zero, false
	}
	data, ok := v.(T)
	return data, ok
}
