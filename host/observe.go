package host

import (
	"go.uber.org/zap"

	"github.com/wippyai/jsaddon/resource"
)

var typeNames = map[uint32]string{
	resource.TypeCallback: "callback",
	resource.TypeObject:   "object",
}

// tableLogger logs handle table lifecycle events at debug level.
type tableLogger struct{}

func (tableLogger) OnResourceEvent(e resource.Event) {
	Logger().Debug("handle "+e.Type.String(),
		zap.Uint64("handle", uint64(e.Handle)),
		zap.String("type", typeName(e.TypeID)),
		zap.Int64("holds", e.Holds),
	)
}

func typeName(id uint32) string {
	if name, ok := typeNames[id]; ok {
		return name
	}
	return "unknown"
}
