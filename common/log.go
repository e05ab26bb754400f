package common

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Level and output are set once at
// startup from the yaml config.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&lineFormatter{})
	return l
}

// lineFormatter renders one plain line per entry, grep-friendly.
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	line := fmt.Sprintf("%s [%s] %s\n",
		entry.Time.Format("2006-01-02 15:04:05"),
		entry.Level,
		entry.Message,
	)
	return []byte(line), nil
}
