// Package options provides the generic functional-option plumbing shared by
// the configurable packages in this module.
//
// Every option may reject an invalid setting; Apply stops at the first error
// so constructors surface configuration mistakes before doing any work.
package options

// Option configures a target of type T and may reject invalid settings.
type Option[T any] interface {
	apply(T) error
}

type optionFunc[T any] func(T) error

func (f optionFunc[T]) apply(target T) error { return f(target) }

// New wraps fn as an Option for targets of type T.
func New[T any](fn func(T) error) Option[T] {
	return optionFunc[T](fn)
}

// Apply runs opts against target in order and returns the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
