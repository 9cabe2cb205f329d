// Package logsink reports mcp4xxx diagnostic events through logrus.
package logsink

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mbalug7/go-mcp4xxx/pkg/mcp4xxx"
)

// Sink logs successful transfers at debug level and failures at error level.
type Sink struct {
	log *logrus.Entry
}

// New returns a Sink logging through log.
func New(log *logrus.Entry) *Sink {
	return &Sink{log: log}
}

// Emit logs ev.
func (obj *Sink) Emit(ev mcp4xxx.Event) {
	log := obj.log.WithField("addr", fmt.Sprintf("0x%02x", ev.Addr))
	if ev.Kind != mcp4xxx.EventProbe {
		log = log.WithField("reg", fmt.Sprintf("0x%02x", uint8(ev.Reg)))
	}

	if ev.Err != nil {
		log.WithError(ev.Err).Errorf("%s: I2C comms failed", ev.Kind)
		return
	}

	switch ev.Kind {
	case mcp4xxx.EventProbe:
		log.Debug("probe read OK")
	case mcp4xxx.EventWrite:
		log.WithField("bytes", fmt.Sprintf("% x", ev.Bytes())).Debug("write OK")
	case mcp4xxx.EventRead:
		log.WithFields(logrus.Fields{
			"bytes": fmt.Sprintf("% x", ev.Bytes()),
			"value": ev.Value,
		}).Debug("read OK")
	case mcp4xxx.EventMismatch:
		log.WithFields(logrus.Fields{
			"wrote": ev.Wrote.String(),
			"read":  ev.Read.String(),
		}).Error("TCON write mismatch")
	}
}
