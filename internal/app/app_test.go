package app

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/GlebRadaev/fedha/internal/accrual"
	"github.com/GlebRadaev/fedha/internal/config"
	"github.com/GlebRadaev/fedha/internal/handlers"
	"github.com/GlebRadaev/fedha/internal/service"
)

type ApplicationSuite struct {
	suite.Suite
	app *Application
}

func TestApplication(t *testing.T) {
	suite.Run(t, &ApplicationSuite{})
}

func (s *ApplicationSuite) SetupTest() {
	s.app = New()
}

func (s *ApplicationSuite) TestWait() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.errCh = make(chan error)
	go func() {
		s.app.errCh <- fmt.Errorf("mock error")
	}()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "mock error")
}

func (s *ApplicationSuite) TestGracefulShutdown() {
	s.app.cfg = &config.Config{Address: "127.0.0.1:0"}
	s.app.api = handlers.New(&service.Services{})
	s.app.workerPool = accrual.NewWorkerPool(2)

	ctx, cancel := context.WithCancel(context.Background())
	s.Require().NoError(s.app.startHTTPServer(ctx))
	s.app.releaseOnShutdown(ctx)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	s.NoError(s.app.Wait(ctx, cancel))
	s.ErrorIs(s.app.workerPool.AddTask(context.Background(), func() error { return nil }), accrual.ErrPoolClosed)
}

func (s *ApplicationSuite) TestListenFailureIsReported() {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	defer l.Close()

	s.app.cfg = &config.Config{Address: l.Addr().String()}
	s.app.api = handlers.New(&service.Services{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Require().NoError(s.app.startHTTPServer(ctx))

	err = s.app.Wait(ctx, cancel)
	s.Require().Error(err)
	s.Contains(err.Error(), "http server exited with error")
}
