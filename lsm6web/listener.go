package lsm6web

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NavAHRS/lsm6-arduino/lsm6"
)

// Listener polls an LSM6 at a fixed interval and forwards each sample to
// the hub as JSON. The driver is not goroutine-safe, so the listener must
// be its only user once Run starts.
type Listener struct {
	imu      *lsm6.LSM6
	hub      *Hub
	interval time.Duration

	now func() time.Time
}

func NewListener(imu *lsm6.LSM6, hub *Hub, interval time.Duration) *Listener {
	return &Listener{imu: imu, hub: hub, interval: interval, now: time.Now}
}

// Run polls until stop is closed.
func (l *Listener) Run(stop <-chan struct{}) {
	tick := time.NewTicker(l.interval)
	defer tick.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tick.C:
			l.hub.Broadcast(l.sample())
		}
	}
}

func (l *Listener) sample() []byte {
	l.imu.Read()
	s := Sample{
		T:     float64(l.now().UnixNano()) / 1e9,
		AX:    l.imu.A.X,
		AY:    l.imu.A.Y,
		AZ:    l.imu.A.Z,
		GX:    l.imu.G.X,
		GY:    l.imu.G.Y,
		GZ:    l.imu.G.Z,
		Stale: l.imu.TimeoutOccurred(),
	}
	if s.Stale {
		logrus.Warn("lsm6web: read timed out, repeating previous sample")
	}
	msg, err := json.Marshal(s)
	if err != nil {
		// Sample is a fixed struct of numbers; this cannot happen.
		logrus.WithError(err).Error("lsm6web: marshal sample")
		return []byte("{}")
	}
	return msg
}
