package observer

import "github.com/DIvanCode/rwlock/pkg/rwlock"

type multi []rwlock.Observer

func (m multi) Observe(e rwlock.Event) {
	for _, o := range m {
		o.Observe(e)
	}
}

// Multi fans events out to every non-nil observer. It returns nil when there
// is nothing to fan out to, which leaves tracing disabled on the lock.
func Multi(observers ...rwlock.Observer) rwlock.Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}

	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}
