package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages carries encoded log entries, consumer decides what to print.
// Entries are dropped when nobody drains the channel and it is full.
var Messages = make(chan []byte, 128)

const (
	ErrorLvl   = 0
	WarningLvl = 1
	InfoLvl    = 2
	DebugLvl   = 378
)

var (
	Error   = zap.Int("level", ErrorLvl)
	Warning = zap.Int("level", WarningLvl)
	Info    = zap.Int("level", InfoLvl)
	Debug   = zap.Int("level", DebugLvl)
)

type chanWriter struct {
	sync.Mutex
	messages chan<- []byte
}

func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	defer w.Unlock()
	var newSlice = make([]byte, len(p))
	copy(newSlice, p)
	select {
	case w.messages <- newSlice:
	default:
	}
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	return nil
}

func newLogger(messages chan<- []byte) *zap.Logger {
	writer := &chanWriter{messages: messages}
	cfg := zap.NewProductionEncoderConfig()
	cfg.SkipLineEnding = true
	cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
	cfg.LevelKey = ""
	encoder := zapcore.NewJSONEncoder(cfg)

	return zap.New(
		zapcore.NewCore(encoder, zapcore.Lock(writer), zap.DebugLevel),
		zap.AddCaller(),
	)
}

func GetLogger() *zap.Logger {
	return newLogger(Messages)
}
