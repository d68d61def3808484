package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

func newClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     1024,
			MaxIdleConnsPerHost: 1024,
			MaxIdleConns:        1024,
		},
	}
}

// TestInsert fills a fresh collection with N documents, one per request, and
// returns its name.
func TestInsert(c Config) string {

	collection := CreateCollection(c.Base, "id", "n")

	client := newClient()

	items := c.N

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(1 * time.Second):
				fmt.Println("items:", atomic.LoadInt64(&items))
			}
		}
	}()

	url := c.Base + "/v1/collections/" + collection + ":insert"

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			n := atomic.AddInt64(&items, -1)
			if n < 0 {
				break
			}
			body := fmt.Sprintf("{\"id\":%d,\"n\":\"%d\"}", c.N-n-1, n)
			resp, err := client.Post(url, "application/json", strings.NewReader(body))
			if err != nil {
				fmt.Println("ERROR: do request:", err.Error())
				os.Exit(4)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				fmt.Println("ERROR: unexpected status:", resp.Status)
				os.Exit(5)
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("sent:", c.N)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())

	return collection
}
