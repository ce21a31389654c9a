package bootstrap

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulldump/box"
	"github.com/sirupsen/logrus"

	"github.com/fulldump/handlerdb/api"
	"github.com/fulldump/handlerdb/configuration"
	"github.com/fulldump/handlerdb/database"
	"github.com/fulldump/handlerdb/mirror"
	"github.com/fulldump/handlerdb/service"
)

var VERSION = "dev"

// Logger builds the process logger from the configured level and format.
func Logger(c *configuration.Configuration) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		l.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	return l
}

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	l := Logger(c)

	db := database.NewDatabase(&database.Config{
		Dir:           c.Dir,
		Filename:      c.Filename,
		MaxRecordSize: c.MaxRecordSize,
		Logger:        l,
	})

	options := []service.Option{service.WithLogger(l)}

	var redisMirror *mirror.Redis
	if c.RedisAddr != "" {
		var err error
		redisMirror, err = mirror.Dial(context.Background(), c.RedisAddr, c.RedisPrefix, c.RedisTimeout)
		if err != nil {
			l.WithError(err).WithField("addr", c.RedisAddr).Fatal("connect redis mirror")
		}
		l.WithField("addr", c.RedisAddr).Info("mirroring registrations to redis")
		options = append(options, service.WithMirror(redisMirror))
	}

	b := api.Build(service.NewService(db, options...), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(l.WithField("component", "access")),
		api.PrettyErrorInterceptor,
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	if c.HttpsSelfsigned {
		l.Info("HTTPS self signed")
		cert, err := selfSignedCertificate()
		if err != nil {
			l.WithError(err).Fatal("generate self signed certificate")
		}
		s.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
		}
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		l.WithError(err).Fatal("listen")
	}
	l.WithField("addr", ln.Addr().String()).Info("listening")

	stopOnce := sync.Once{}
	stop = func() {
		stopOnce.Do(func() {
			db.Stop()
			s.Shutdown(context.Background())
			if redisMirror != nil {
				redisMirror.Close()
			}
		})
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for sig := range signalChan {
			l.WithField("signal", sig.String()).Info("signal received")
			stop()
		}
	}()

	start = func() {

		wg := &sync.WaitGroup{}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Start()
			if err != nil {
				l.WithError(err).Error("database")
			}
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			if c.HttpsEnabled {
				err = s.ServeTLS(ln, "", "")
			} else {
				err = s.Serve(ln)
			}
			if err != nil && err != http.ErrServerClosed {
				l.WithError(err).Error("http server")
			}
		}()

		wg.Wait()
	}

	return
}
