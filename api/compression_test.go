package api

import (
	"testing"

	. "github.com/fulldump/biff"
)

func TestAcceptsGzip(t *testing.T) {

	AssertTrue(acceptsGzip("gzip"))
	AssertTrue(acceptsGzip("deflate, gzip;q=0.8"))
	AssertTrue(!acceptsGzip(""))
	AssertTrue(!acceptsGzip("br, deflate"))
	AssertTrue(!acceptsGzip("gzip;q=0"))
}
