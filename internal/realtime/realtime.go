package realtime

import "github.com/sirupsen/logrus"

type RealtimeLogHook struct{}

func (h *RealtimeLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "Realtime: " + entry.Message
	return nil
}

func (h *RealtimeLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
