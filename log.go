package pconics

import (
	"fmt"
	"io"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// NewLogger returns a logfmt logger writing to w and filtered at the provided level
// (debug, info, warn, error or none).
func NewLogger(w io.Writer, lvl string) (kitlog.Logger, error) {
	var opt level.Option
	switch lvl {
	case "debug":
		opt = level.AllowDebug()
	case "", "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	case "none":
		opt = level.AllowNone()
	default:
		return nil, fmt.Errorf("unknown log level '%s'", lvl)
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	klog = kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC)
	return level.NewFilter(klog, opt), nil
}
