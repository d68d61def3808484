package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | INSERT | SCROLL"`
	Base    string `usage:"base URL"`
	N       int64  `usage:"number of documents"`
	Workers int    `usage:"number of workers"`
	Reads   int64  `usage:"number of random position reads"`
}

var cleanups []func()

func main() {

	defer func() {
		fmt.Println("Cleaning up...")
		for _, cleanup := range cleanups {
			cleanup()
		}
	}()

	c := Config{
		Test:    "all",
		Base:    "",
		N:       100_000,
		Workers: 16,
		Reads:   10_000,
	}
	goconfig.Read(&c)

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
		time.Sleep(100 * time.Millisecond)
	}

	switch strings.ToUpper(c.Test) {
	case "ALL", "SCROLL":
		TestScroll(c, TestInsert(c))
	case "INSERT":
		TestInsert(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
