// lsm6read detects an LSM6DS33 on an I2C bus and dumps raw samples as
// CSV until interrupted.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all" // Empty import needed to initialize embd library.
	_ "github.com/kidoman/embd/host/rpi" // Empty import needed to initialize embd library.
	"github.com/sirupsen/logrus"

	"github.com/NavAHRS/lsm6-arduino/i2cbus"
	"github.com/NavAHRS/lsm6-arduino/lsm6"
)

func main() {
	var (
		busNo    = flag.Int("bus", 1, "I2C bus number")
		sa0      = flag.String("sa0", "auto", "SA0 pin state: auto, high or low")
		timeout  = flag.Uint("timeout", 100, "read timeout in ms, 0 waits forever")
		interval = flag.Duration("interval", 100*time.Millisecond, "sample interval")
		scaled   = flag.Bool("scaled", false, "print g and dps instead of raw counts")
	)
	flag.Parse()

	state, err := parseSA0(*sa0)
	if err != nil {
		logrus.WithError(err).Fatal("bad -sa0")
	}

	bus := embd.NewI2CBus(byte(*busNo))
	defer bus.Close()

	imu := lsm6.New(i2cbus.NewEmbd(bus))
	if !imu.Init(lsm6.DeviceAuto, state) {
		logrus.Fatalf("no LSM6 found on bus %d", *busNo)
	}
	logrus.WithFields(logrus.Fields{
		"device":  imu.Device,
		"address": fmt.Sprintf("%#x", imu.Address),
	}).Info("sensor detected")

	imu.EnableDefault()
	imu.SetTimeout(uint16(*timeout))

	fmt.Println("t,ax,ay,az,gx,gy,gz")
	tick := time.NewTicker(*interval)
	defer tick.Stop()
	for now := range tick.C {
		imu.Read()
		if imu.TimeoutOccurred() {
			logrus.Warn("read timed out, sample repeats previous values")
			continue
		}
		if *scaled {
			a := lsm6.Scaled(imu.A, lsm6.AccelScale2g)
			g := lsm6.Scaled(imu.G, lsm6.GyroScale245dps)
			fmt.Printf("%s,%.4f,%.4f,%.4f,%.3f,%.3f,%.3f\n",
				now.Format(time.RFC3339Nano), a.X, a.Y, a.Z, g.X, g.Y, g.Z)
		} else {
			fmt.Printf("%s,%d,%d,%d,%d,%d,%d\n",
				now.Format(time.RFC3339Nano),
				imu.A.X, imu.A.Y, imu.A.Z, imu.G.X, imu.G.Y, imu.G.Z)
		}
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
