package state

import (
	"sync"

	"pricewidget/internal/models"
)

// persister serializes selection writes on one goroutine. Save never blocks;
// while a write is in flight only the newest pending selection is kept.
type persister struct {
	save     func(models.Selection) error
	onResult func(models.Selection, error)

	mu      sync.Mutex
	pending *models.Selection

	wake      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func newPersister(save func(models.Selection) error, onResult func(models.Selection, error)) *persister {
	p := &persister{
		save:     save,
		onResult: onResult,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) Save(sel models.Selection) {
	p.mu.Lock()
	p.pending = &sel
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.done:
			p.flush()
			return
		}
	}
}

func (p *persister) flush() {
	p.mu.Lock()
	sel := p.pending
	p.pending = nil
	p.mu.Unlock()

	if sel == nil {
		return
	}
	p.onResult(*sel, p.save(*sel))
}

// Close writes any pending selection and stops the writer. Saves after Close
// are dropped.
func (p *persister) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	<-p.stopped
}
