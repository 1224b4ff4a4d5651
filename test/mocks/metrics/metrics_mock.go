package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStatsd struct {
	mock.Mock
}

func (m *MockStatsd) Count(name string, value int64, tags []string, rate float64) error {
	args := m.Called(name, value, tags, rate)
	return args.Error(0)
}

func (m *MockStatsd) Timing(name string, value time.Duration, tags []string, rate float64) error {
	args := m.Called(name, value, tags, rate)
	return args.Error(0)
}
