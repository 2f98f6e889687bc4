package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/pool"
	"github.com/rs/zerolog/log"
)

// RewardCrediter applies the click count and balance credit for one visit.
type RewardCrediter interface {
	CreditVisit(ctx context.Context, visit model.Visit) error
}

// VisitWorkerPool moves reward crediting off the redirect path. The handler
// submits a visit and answers the redirect immediately; workers drain the
// queue and call the reward engine. Crediting failures are logged, never
// surfaced to the visitor.
type VisitWorkerPool struct {
	service      RewardCrediter
	visitChan    chan *model.Visit
	eventPool    *pool.Pool[*model.Visit]
	workerCount  int
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Config controls the visit worker pool.
type Config struct {
	WorkerCount int
	BufferSize  int
}

// DefaultConfig returns settings suitable for a single instance.
func DefaultConfig() Config {
	return Config{
		WorkerCount: 5,
		BufferSize:  256,
	}
}

// NewVisitWorkerPool creates a pool crediting visits through service.
func NewVisitWorkerPool(service RewardCrediter, config Config) *VisitWorkerPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &VisitWorkerPool{
		service:     service,
		visitChan:   make(chan *model.Visit, config.BufferSize),
		eventPool:   pool.New[*model.Visit](config.BufferSize),
		workerCount: config.WorkerCount,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (p *VisitWorkerPool) Start() {
	log.Info().
		Int("workers", p.workerCount).
		Int("buffer", cap(p.visitChan)).
		Msg("Starting visit worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit enqueues a visit for crediting. It reports false, and logs, when
// the queue is full; the reward for that visit is then lost (the click was
// already counted by the submitter), which is the documented trade-off for
// never blocking the redirect.
func (p *VisitWorkerPool) Submit(visit model.Visit) bool {
	ev := p.eventPool.Get()
	if ev == nil {
		ev = &model.Visit{}
	}
	*ev = visit
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	select {
	case p.visitChan <- ev:
		return true
	default:
		p.eventPool.Put(ev)
		log.Error().
			Str("shortCode", visit.ShortCode).
			Msg("Visit queue full, reward not credited")
		return false
	}
}

func (p *VisitWorkerPool) worker(id int) {
	defer p.wg.Done()

	log.Debug().Int("workerID", id).Msg("Visit worker started")

	for {
		select {
		case <-p.ctx.Done():
			// drain what is already queued before exiting
			for {
				select {
				case ev := <-p.visitChan:
					p.credit(id, ev)
				default:
					log.Debug().Int("workerID", id).Msg("Visit worker shutting down")
					return
				}
			}

		case ev := <-p.visitChan:
			p.credit(id, ev)
		}
	}
}

func (p *VisitWorkerPool) credit(workerID int, ev *model.Visit) {
	// p.ctx only signals shutdown; crediting gets a fresh context so queued
	// visits drained during Stop still reach the store.
	if err := p.service.CreditVisit(context.Background(), *ev); err != nil {
		log.Error().
			Err(err).
			Int("workerID", workerID).
			Str("shortCode", ev.ShortCode).
			Msg("Failed to credit visit")
	}
	p.eventPool.Put(ev)
}

// Stop shuts the pool down, letting workers drain the queue first.
func (p *VisitWorkerPool) Stop() {
	p.shutdownOnce.Do(func() {
		log.Info().Msg("Stopping visit worker pool")
		p.cancel()
		p.wg.Wait()
	})
}
