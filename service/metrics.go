package service

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Metrics is the part of the statsd client the services use.
type Metrics interface {
	Count(name string, value int64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
}

type instrumentation struct {
	sdClient Metrics
	logger   *logrus.Logger
}

func (i instrumentation) incCounter(name string, tags []string) {
	if i.sdClient == nil {
		return
	}
	if err := i.sdClient.Count(name, 1, tags, 1); err != nil {
		i.logger.Errorf("fail to count metric, err: %v", err)
	}
}

func (i instrumentation) measureTime(name string, start time.Time, tags []string) {
	if i.sdClient == nil {
		return
	}
	if err := i.sdClient.Timing(name, time.Since(start), tags, 1); err != nil {
		i.logger.Errorf("fail to measure time metric, err: %v", err)
	}
}
