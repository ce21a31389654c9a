package main

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

func TestRegister(c Config) {

	items := c.N
	var failed int64

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&items, -1)
			if n < 0 {
				return
			}
			if Do("POST", c.Base+"/v1/handlers", NewHandler(n)) != http.StatusCreated {
				atomic.AddInt64(&failed, 1)
			}
		}
	})

	Report("register", c.N, t0)
	if failed > 0 {
		fmt.Println("register failed:", failed)
	}
}

func TestUnregister(c Config) {

	items := c.N
	var missing int64

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&items, -1)
			if n < 0 {
				return
			}
			if Do("POST", c.Base+"/v1/handlers/"+HandlerID(n)+":unregister", nil) != http.StatusNoContent {
				atomic.AddInt64(&missing, 1)
			}
		}
	})

	Report("unregister", c.N, t0)
	if missing > 0 {
		fmt.Println("unregister not found:", missing)
	}
}
