package meshing

import (
	"context"
	"sync"

	"github.com/Mokuzzai/block-game/internal/registry"
	"github.com/Mokuzzai/block-game/internal/world"
	"github.com/Mokuzzai/block-game/pkg/geometry"
)

// MeshJob is a request to rebuild one chunk.
type MeshJob struct {
	Seq       int // caller's ordering key, echoed in the result
	Chunk     *world.Chunk
	Templates *registry.Templates
	CullFaces bool
	// Result channel - will be sent the result when done
	ResultChan chan<- MeshResult
}

// MeshResult carries a rebuilt mesh or the error that stopped the rebuild.
type MeshResult struct {
	Seq    int
	Chunk  *world.Chunk
	Buffer *geometry.Buffer
	Error  error
}

// WorkerPool runs chunk rebuilds on a fixed set of goroutines.
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	once     sync.Once
}

// NewWorkerPool starts workers goroutines reading from a queue of queueSize.
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }

// SubmitJobBlocking queues a job, waiting for room. It returns false if the
// pool shuts down first.
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			job.ResultChan <- runJob(job)
		case <-p.ctx.Done():
			return
		}
	}
}

func runJob(job MeshJob) MeshResult {
	var filter FaceFilter
	if job.CullFaces {
		filter = CullHidden(job.Chunk)
	}
	buf, err := BuildChunkMeshFiltered(job.Chunk, job.Templates, filter)
	return MeshResult{Seq: job.Seq, Chunk: job.Chunk, Buffer: buf, Error: err}
}

// Shutdown stops the workers and waits for them to exit. Jobs still queued
// are dropped, so it must not overlap a System.Tick using this pool.
func (p *WorkerPool) Shutdown() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}
