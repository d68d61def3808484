package main

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-json-experiment/json"
)

// TestScroll jumps to random scrollbar positions of source.
func TestScroll(c Config, source string) {

	client := newClient()

	reads := c.Reads
	var missed int64

	t0 := time.Now()
	Parallel(c.Workers, func() {
		for atomic.AddInt64(&reads, -1) >= 0 {

			p := strconv.FormatFloat(rand.Float64(), 'f', 6, 64)
			resp, err := client.Get(c.Base + "/v1/sources/" + source + "/position?p=" + p)
			if err != nil {
				fmt.Println("ERROR: do request:", err.Error())
				os.Exit(4)
			}

			page := struct {
				Offset int   `json:"offset"`
				Rows   []any `json:"rows"`
			}{}
			err = json.UnmarshalRead(resp.Body, &page)
			resp.Body.Close()
			if err != nil || resp.StatusCode != http.StatusOK {
				fmt.Println("ERROR: bad page:", resp.Status, err)
				os.Exit(5)
			}
			if len(page.Rows) == 0 {
				atomic.AddInt64(&missed, 1)
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("reads:", c.Reads)
	fmt.Println("empty pages:", missed)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f reads/sec\n", float64(c.Reads)/took.Seconds())
}
