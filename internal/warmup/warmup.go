package warmup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"people-api/internal/config"
)

// Run fires synthetic creation traffic at the public endpoint so connection
// pools, the cache tier and the flusher are hot before the benchmark starts.
// All records carry the reserved WARMUP prefix; the worker's cleanup job
// purges them and the count endpoint never includes them.
func Run(ctx context.Context, cfg config.WarmupConfig) {
	select {
	case <-time.After(cfg.StartupDelay):
	case <-ctx.Done():
		return
	}

	log.Info().
		Str("target", cfg.TargetURL).
		Int("requests", cfg.Requests).
		Msg("[WARMUP] Starting synthetic load")

	client := &http.Client{Timeout: 5 * time.Second}
	sem := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Requests; i++ {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }()
			post(ctx, client, cfg.TargetURL, n)
		}(i)
	}

	wg.Wait()
	log.Info().Msg("[WARMUP] Synthetic load finished")
}

func post(ctx context.Context, client *http.Client, url string, n int) {
	body := fmt.Sprintf(
		`{"apelido":"WARMUP::vaf%d","nome":"VAF","nascimento":"1999-01-01"}`, n)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return // warmup traffic is fire-and-forget
	}
	resp.Body.Close()
}
