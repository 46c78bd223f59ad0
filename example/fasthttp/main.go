// FILE: mylog/example/fasthttp/main.go
package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/rdatools/mylog"
	"github.com/rdatools/mylog/compat"
	"github.com/rdatools/mylog/runner"
)

func main() {
	// Create and configure logger
	logger, err := mylog.NewBuilder().
		LogPath("/tmp/mylog-fasthttp").
		LogMask(mylog.DefaultLogMask).
		NoQuit(true).
		Build()
	if err != nil {
		panic(err)
	}

	builder := compat.NewBuilder().WithLogger(logger)

	// Create fasthttp adapter with custom action detection
	fasthttpAdapter, err := builder.BuildFastHTTP(
		compat.WithDefaultAction(mylog.MsgLog),
		compat.WithActionDetector(customActionDetector),
	)
	if err != nil {
		panic(err)
	}

	// Log is not safe for concurrent use; handlers take turns running commands
	var mu sync.Mutex

	reg := prometheus.NewRegistry()
	r := runner.New(logger, runner.WithMetrics(reg))
	metrics := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &fasthttp.Server{
		Handler: func(ctx *fasthttp.RequestCtx) {
			switch string(ctx.Path()) {
			case "/metrics":
				metrics(ctx)
			case "/uptime":
				mu.Lock()
				uptimeHandler(ctx, r)
				mu.Unlock()
			default:
				ctx.Error("not found", fasthttp.StatusNotFound)
			}
		},
		Logger: fasthttpAdapter,

		// Other server settings
		Name:         "mylog-example",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		logger.Log(fmt.Sprintf("listen :8080: %v", err), mylog.LogErr)
	}
}

// uptimeHandler runs uptime through the runner and returns its output
func uptimeHandler(ctx *fasthttp.RequestCtx, r *runner.Runner) {
	rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res := r.Run(rctx, "uptime", mylog.LogWarn, runner.OptLogCmd|runner.OptLogStderr|runner.OptCapture)
	if !res.OK() {
		ctx.Error(res.Error, fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("text/plain")
	fmt.Fprint(ctx, res.Stdout)
}

func customActionDetector(msg string) mylog.Action {
	// fasthttp reports dropped clients with this text
	if strings.Contains(msg, "connection cannot be served") {
		return mylog.LogWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return mylog.LogErr
	}

	return compat.DetectAction(msg)
}
