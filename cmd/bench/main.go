package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test    string `usage:"name of the test: ALL | REGISTER | FIND | UNREGISTER"`
	Base    string `usage:"base URL, starts a temporary server when empty"`
	N       int64  `usage:"number of handlers"`
	Workers int    `usage:"number of workers"`
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
		N:       10_000,
		Workers: 16,
	}
	goconfig.Read(&c)

	if c.Base == "" {
		start, stop := CreateServer(&c)
		defer stop()
		go start()
		WaitReady(c.Base)
	}

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestRegister(c)
		TestFind(c)
		TestUnregister(c)
	case "REGISTER":
		TestRegister(c)
	case "FIND":
		TestFind(c)
	case "UNREGISTER":
		TestUnregister(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

}
