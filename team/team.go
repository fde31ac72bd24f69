package team

import (
	"sync"
)

// WorkerFunc processes one job of type T into a result of type U
type WorkerFunc[T any, U any] func(T) (U, error)

// Team is a generic bounded worker pool
// WorkerCount: number of concurrent workers
// Worker: the function to process each job
type Team[T any, U any] struct {
	WorkerCount int
	Worker      WorkerFunc[T, U]
}

// Run feeds the jobs through the pool and collects results and worker
// errors. Result order is not guaranteed.
func (t *Team[T, U]) Run(jobs []T) ([]U, []error) {
	jobChan := make(chan T, len(jobs))
	resultChan := make(chan U, len(jobs))
	errChan := make(chan error, len(jobs))
	var wg sync.WaitGroup

	for range t.WorkerCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				result, err := t.Worker(job)
				if err != nil {
					errChan <- err
					continue
				}
				resultChan <- result
			}
		}()
	}

	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	wg.Wait()
	close(resultChan)
	close(errChan)

	results := make([]U, 0, len(jobs))
	for result := range resultChan {
		results = append(results, result)
	}
	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	return results, errs
}
