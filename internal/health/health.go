package health

import (
	"context"
	"time"
)

type Check func(ctx context.Context) error

type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// ProbeRunner runs named readiness checks against downstream
// dependencies. Checks share one timeout per probe.
type ProbeRunner struct {
	timeout time.Duration
	names   []string
	checks  map[string]Check
}

func NewProbeRunner(timeout time.Duration) *ProbeRunner {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ProbeRunner{timeout: timeout, checks: map[string]Check{}}
}

func (p *ProbeRunner) Register(name string, check Check) {
	if _, ok := p.checks[name]; !ok {
		p.names = append(p.names, name)
	}
	p.checks[name] = check
}

func (p *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	results := make([]CheckResult, 0, len(p.names))
	ready := true
	for _, name := range p.names {
		checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
		start := time.Now()
		err := p.checks[name](checkCtx)
		cancel()
		result := CheckResult{Name: name, Status: "ok", Latency: time.Since(start).String()}
		if err != nil {
			ready = false
			result.Status = "failed"
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return ready, results
}
