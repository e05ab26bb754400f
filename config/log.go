package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"

	"github.com/ordview-labs/ordview/common"
)

// NewRotatingWriter opens a daily-rotated log file in dir, named after
// the running binary plus suffix, with a stable symlink at
// <dir>/<name>.log pointing at the current file.
func NewRotatingWriter(dir, suffix string, maxAge time.Duration) (io.Writer, error) {
	exePath, _ := os.Executable()
	name := filepath.Base(exePath) + suffix
	w, err := rotatelogs.New(
		filepath.Join(dir, name+".%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(dir, name+".log")),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("open rotating log in %s: %v", dir, err)
	}
	return w, nil
}

// InitLog points common.Log at a rotating file plus stdout and applies
// the configured level.
func InitLog(conf *YamlConf) error {
	lvl, err := logrus.ParseLevel(conf.Log.Level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	file, err := NewRotatingWriter(conf.Log.Path, "", 30*24*time.Hour)
	if err != nil {
		return err
	}
	common.Log.SetOutput(io.MultiWriter(file, os.Stdout))
	common.Log.SetLevel(lvl)
	return nil
}
