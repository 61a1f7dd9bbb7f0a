// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/sixlink"
//	"github.com/unkn0wn-root/sixlink/codec"
//	"github.com/unkn0wn-root/sixlink/hooks/async"
//	"github.com/unkn0wn-root/sixlink/sloghooks"
//	"github.com/unkn0wn-root/sixlink/store/memory"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery: 10, // sample logs: ~every 10th self-heal
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	sh, _ := sixlink.New(sixlink.Options{
//	    Namespace: "prod",
//	    Store:     memory.New(time.Hour),
//	    Codec:     codec.JSON[sixlink.Link]{},
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/sixlink"
)

type Hooks struct {
	inner sixlink.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ sixlink.Hooks = (*Hooks)(nil)

func New(inner sixlink.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SelfHeal(k, r string)      { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) ExpiredPurged(code string) { h.try(func() { h.inner.ExpiredPurged(code) }) }
func (h *Hooks) StoreSetRejected(k string) { h.try(func() { h.inner.StoreSetRejected(k) }) }
func (h *Hooks) SequenceError(err error)   { h.try(func() { h.inner.SequenceError(err) }) }
