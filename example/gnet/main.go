// FILE: mylog/example/gnet/main.go
package main

import (
	"fmt"

	"github.com/panjf2000/gnet/v2"

	"github.com/rdatools/mylog"
	"github.com/rdatools/mylog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	logger *mylog.Logger
}

func (es *echoServer) OnBoot(_ gnet.Engine) gnet.Action {
	es.logger.Log("echo server starts on 127.0.0.1:9000", mylog.LogWarn)
	return gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	logger, err := mylog.NewBuilder().
		LogPath("/tmp/mylog-gnet").
		DebugLevel("0-2").
		Build()
	if err != nil {
		panic(err)
	}

	gnetAdapter, err := compat.NewBuilder().
		WithLogger(logger).
		BuildGnet(compat.WithFatalHandler(func(msg string) {
			fmt.Println("gnet fatal:", msg)
		}))
	if err != nil {
		panic(err)
	}

	// Configure gnet server with the logger
	err = gnet.Run(
		&echoServer{logger: logger},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		logger.Log(fmt.Sprintf("gnet.Run: %v", err), mylog.LogErrExit)
	}
}
