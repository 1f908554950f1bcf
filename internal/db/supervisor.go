package db

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DialFunc abre un Backend nuevo.
type DialFunc func(ctx context.Context) (Backend, error)

// Supervisor conecta el Handle al almacenamiento y, si el primer intento
// falla, reintenta en un intervalo fijo hasta lograrlo. Las peticiones que
// llegan mientras tanto fallan; no se encolan.
type Supervisor struct {
	logger   *zap.Logger
	handle   *Handle
	dial     DialFunc
	interval time.Duration

	once sync.Once
	done chan struct{}
}

func NewSupervisor(logger *zap.Logger, handle *Handle, dial DialFunc, interval time.Duration) *Supervisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Supervisor{
		logger:   logger,
		handle:   handle,
		dial:     dial,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start hace un primer intento sincrono. Si falla arranca el loop de
// reconexion en segundo plano, que termina al conectar o al cancelar ctx.
func (s *Supervisor) Start(ctx context.Context) {
	err := s.attempt(ctx)
	if err == nil {
		s.logger.Info("connected to store")
		return
	}
	s.logger.Error("store connection failed", zap.Error(err))
	s.logger.Info("starting reconnection loop", zap.Duration("interval", s.interval))
	go s.loop(ctx)
}

// Connected se cierra la primera vez que el Handle queda conectado.
func (s *Supervisor) Connected() <-chan struct{} {
	return s.done
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reconnection loop stopped", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			s.logger.Info("connecting to store")
			if err := s.attempt(ctx); err != nil {
				s.logger.Error("store reconnection failed", zap.Error(err))
				continue
			}
			s.logger.Info("connected to store")
			return
		}
	}
}

func (s *Supervisor) attempt(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout+time.Second)
	defer cancel()

	b, err := s.dial(dialCtx)
	if err != nil {
		return err
	}
	s.handle.Set(b)
	s.once.Do(func() { close(s.done) })
	return nil
}
