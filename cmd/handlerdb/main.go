package main

import (
	"fmt"
	"os"

	"github.com/fulldump/goconfig"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/fulldump/handlerdb/bootstrap"
	"github.com/fulldump/handlerdb/configuration"
)

var banner = `
 _                     _ _           ____  ____
| |__   __ _ _ __   __| | | ___ _ __|  _ \| __ )
| '_ \ / _' | '_ \ / _' | |/ _ \ '__| | | |  _ \
| | | | (_| | | | | (_| | |  __/ |  | |_| | |_) |
|_| |_|\__,_|_| |_|\__,_|_|\___|_|  |____/|____/
                                 version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		json.MarshalWrite(os.Stdout, c, jsontext.WithIndent("    "))
		fmt.Println()
	}

	start, _ := bootstrap.Bootstrap(c)
	start()
}
