package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/handlerdb/bootstrap"
	"github.com/fulldump/handlerdb/configuration"
	"github.com/fulldump/handlerdb/registry"
)

var client = &http.Client{
	Transport: &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConnsPerHost: 1024,
		MaxIdleConns:        1024,
	},
}

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

func TempDir() (string, func()) {
	dir, err := os.MkdirTemp("", "handlerdb_bench_*")
	if err != nil {
		panic("Could not create temp directory: " + err.Error())
	}

	cleanup := func() {
		os.RemoveAll(dir)
	}

	return dir, cleanup
}

func CreateServer(c *Config) (start, stop func()) {
	dir, cleanup := TempDir()
	cleanups = append(cleanups, cleanup)

	conf := configuration.Default()
	conf.Dir = dir
	conf.ShowBanner = false
	conf.LogLevel = "warn"
	c.Base = "http://" + conf.HttpAddr

	return bootstrap.Bootstrap(conf)
}

// WaitReady polls the stats endpoint until the registry is operating.
func WaitReady(base string) {
	for i := 0; i < 100; i++ {
		resp, err := client.Get(base + "/v1/stats")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	fmt.Println("ERROR: server not ready")
	os.Exit(2)
}

func HandlerID(n int64) string {
	return fmt.Sprintf("com.example.bench.Handler%d", n)
}

func NewHandler(n int64) *registry.Handler {
	return &registry.Handler{
		ID:       HandlerID(n),
		Flag:     0,
		Suite:    int32(n%100 + 1),
		Class:    fmt.Sprintf("com.example.bench.Midlet%d", n),
		Types:    []string{fmt.Sprintf("application/x-bench-%d", n%10)},
		Suffixes: []string{fmt.Sprintf(".b%d", n%10)},
		Actions:  []string{"open"},
	}
}

func Do(method, url string, body any) int {
	var r io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		r = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		fmt.Println("ERROR: new request:", err.Error())
		os.Exit(3)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("ERROR: do request:", err.Error())
		os.Exit(4)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode
}

func Report(name string, n int64, t0 time.Time) {
	took := time.Since(t0)
	fmt.Println(name, "sent:", n)
	fmt.Println(name, "took:", took)
	fmt.Printf("%s throughput: %.2f ops/sec\n", name, float64(n)/took.Seconds())
}
