package repokit

// Binder binds a domain repo to a handle H, a Queryer or a Columnar
type Binder[H, T any] interface {
	Bind(H) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[H, T any] func(H) T

// Bind calls the underlying function
func (f BindFunc[H, T]) Bind(h H) T { return f(h) }

// MustBind panics on a nil handle, which is always a wiring mistake
func MustBind[H comparable, T any](b Binder[H, T], h H) T {
	var zero H
	if h == zero {
		panic("repokit: nil handle")
	}
	return b.Bind(h)
}
