// lsm6web serves live LSM6 samples over a websocket at /lsm6.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NavAHRS/lsm6-arduino/i2cbus"
	"github.com/NavAHRS/lsm6-arduino/lsm6"
	"github.com/NavAHRS/lsm6-arduino/lsm6web"
)

func main() {
	var (
		addr     = flag.String("addr", fmt.Sprintf(":%d", lsm6web.DefaultPort), "listen address")
		line     = flag.Int("bus", 1, "I2C bus number")
		sa0      = flag.String("sa0", "auto", "SA0 pin state: auto, high or low")
		timeout  = flag.Uint("timeout", 100, "read timeout in ms, 0 waits forever")
		interval = flag.Duration("interval", 100*time.Millisecond, "sample interval")
	)
	flag.Parse()

	state, err := parseSA0(*sa0)
	if err != nil {
		logrus.WithError(err).Fatal("bad -sa0")
	}

	bus := i2cbus.NewD2R2(*line)
	defer bus.Close()

	imu := lsm6.New(bus)
	if !imu.Init(lsm6.DeviceAuto, state) {
		logrus.Fatalf("no LSM6 found on bus %d", *line)
	}
	logrus.WithFields(logrus.Fields{
		"device":  imu.Device,
		"address": fmt.Sprintf("%#x", imu.Address),
	}).Info("sensor detected")

	imu.EnableDefault()
	imu.SetTimeout(uint16(*timeout))

	hub := lsm6web.NewHub()
	go hub.Run()

	listener := lsm6web.NewListener(imu, hub, *interval)
	go listener.Run(make(chan struct{}))

	http.Handle("/lsm6", hub)
	logrus.WithField("addr", *addr).Info("serving samples")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		logrus.WithError(err).Fatal("serve")
	}
}

func parseSA0(s string) (lsm6.SA0State, error) {
	switch s {
	case "auto":
		return lsm6.SA0Auto, nil
	case "high":
		return lsm6.SA0High, nil
	case "low":
		return lsm6.SA0Low, nil
	}
	return lsm6.SA0Auto, fmt.Errorf("unknown SA0 state %q", s)
}
