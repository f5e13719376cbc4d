package dynamo

import "sync"

// StatePool hands out zeroed buffers of a fixed length. sync.Pool makes each
// checkout safe across goroutines.
type StatePool struct {
	pool sync.Pool
	size int
}

func NewStatePool(stateSize int) *StatePool {
	return &StatePool{
		size: stateSize,
		pool: sync.Pool{
			New: func() interface{} {
				s := make(State, stateSize)
				return &s
			},
		},
	}
}

func (p *StatePool) Get() State {
	return *(p.pool.Get().(*State))
}

func (p *StatePool) Put(s State) {
	if len(s) == p.size {
		for i := range s {
			s[i] = 0
		}
		p.pool.Put(&s)
	}
}
