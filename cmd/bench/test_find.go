package main

import (
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

// TestFind runs lookups by id and by type, each one a full scan of the
// registry file.
func TestFind(c Config) {

	items := c.N
	var failed int64

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&items, -1)
			if n < 0 {
				return
			}
			u := c.Base + "/v1/handlers/" + HandlerID(n)
			if n%2 == 1 {
				q := url.Values{}
				q.Set("key", "types")
				q.Set("value", fmt.Sprintf("application/x-bench-%d", n%10))
				u = c.Base + "/v1/handlers?" + q.Encode()
			}
			if Do("GET", u, nil) != http.StatusOK {
				atomic.AddInt64(&failed, 1)
			}
		}
	})

	Report("find", c.N, t0)
	if failed > 0 {
		fmt.Println("find failed:", failed)
	}
}
