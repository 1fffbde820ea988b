package sweepselect

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("system", "selection")

// SetLogger replaces the entry used for selection logging.
func SetLogger(entry *logrus.Entry) {
	if entry == nil {
		return
	}
	log = entry.WithField("system", "selection")
}
