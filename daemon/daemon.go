package daemon

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"faultsim/alert"
	"faultsim/config"
	"faultsim/fault"
	"faultsim/monitor"
)

// Daemon repeatedly injects a random fault and runs the matching recovery,
// logging every cycle and alerting when a recovery was applied.
type Daemon struct {
	engine     *monitor.Engine
	logger     logrus.FieldLogger
	configPath string
	pick       func(n int) int

	mu  sync.RWMutex
	cfg *config.SimConfig
}

func New(engine *monitor.Engine, cfg *config.SimConfig, configPath string, logger logrus.FieldLogger) *Daemon {
	return &Daemon{
		engine:     engine,
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		pick:       rand.New(rand.NewSource(time.Now().UnixNano())).Intn,
	}
}

func (d *Daemon) config() *config.SimConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

func (d *Daemon) Run(ctx context.Context) error {
	if err := d.engine.Init(); err != nil {
		return err
	}
	go d.watchConfig(ctx)

	ticker := time.NewTicker(d.config().Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			kind := fault.Kinds[d.pick(len(fault.Kinds))]
			if err := d.Cycle(ctx, kind); err != nil {
				d.logger.WithError(err).WithField("kind", kind).Error("cycle failed")
			}
		}
	}
}

// Cycle runs one inject-then-recover round for kind.
func (d *Daemon) Cycle(ctx context.Context, kind fault.Kind) error {
	out, err := d.engine.InjectAndRecover(kind)
	if err != nil {
		return err
	}

	rep := out.Recovery
	log := d.logger.WithFields(logrus.Fields{"kind": kind, "run": rep.ID, "fault": out.Fault.ID})
	if !rep.Triggered {
		log.Info("fault injected, nothing to recover")
		return nil
	}
	log.WithField("pids", rep.PIDs()).Info("fault recovered")

	msg := fmt.Sprintf("⚠ %s recovered on %d process(es): %v", kind, len(rep.Actions), rep.PIDs())
	if err := alert.Send(ctx, d.config().WebhookURL(), msg); err != nil {
		log.WithError(err).Warn("alert not delivered")
	}
	return nil
}

func (d *Daemon) watchConfig(ctx context.Context) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		d.logger.WithError(err).Warn("config watch disabled")
		return
	}
	defer w.Close()

	if err := w.Add(d.configPath); err != nil {
		d.logger.WithError(err).WithField("path", d.configPath).Warn("config watch disabled")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case e, ok := <-w.Events:
			if !ok {
				return
			}
			if e.Op&fsnotify.Write == fsnotify.Write {
				d.reload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			d.logger.WithError(err).Warn("config watch error")
		}
	}
}

func (d *Daemon) reload() {
	cfg, err := config.LoadFrom(d.configPath)
	if err != nil {
		d.logger.WithError(err).Warn("config reload rejected")
		return
	}
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	d.engine.Reconfigure(cfg)
	d.logger.Info("config reloaded")
}
