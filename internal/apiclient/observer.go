package apiclient

import (
	"time"

	"go.uber.org/zap"
)

// RequestInfo describes a request as it is dispatched.
type RequestInfo struct {
	ID       string
	Method   string
	Endpoint string
	Started  time.Time
}

// Result describes how a request resolved. Status is 0 when no response
// was received.
type Result struct {
	Status   int
	Duration time.Duration
	Err      error
}

// Observer is notified around every request. Implementations must be safe
// for concurrent use.
type Observer interface {
	RequestStarted(RequestInfo)
	RequestFinished(RequestInfo, Result)
}

// LogObserver writes one structured line per finished request.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver returns an observer logging to logger.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger.Named("api")}
}

func (o *LogObserver) RequestStarted(info RequestInfo) {
	o.logger.Debug("request started",
		zap.String("request_id", info.ID),
		zap.String("method", info.Method),
		zap.String("endpoint", info.Endpoint),
	)
}

func (o *LogObserver) RequestFinished(info RequestInfo, res Result) {
	fields := []zap.Field{
		zap.String("request_id", info.ID),
		zap.String("method", info.Method),
		zap.String("endpoint", info.Endpoint),
		zap.Int("status", res.Status),
		zap.Duration("duration", res.Duration),
	}
	if res.Err != nil {
		fields = append(fields, zap.String("kind", KindOf(res.Err).String()), zap.Error(res.Err))
		o.logger.Warn("request failed", fields...)
		return
	}
	o.logger.Info("request finished", fields...)
}
