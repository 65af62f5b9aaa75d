package configurator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/engine/camera"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// CommandKind is one of the user-facing configurator commands.
type CommandKind string

const (
	CmdChangeLegs    CommandKind = "legs"
	CmdChangeTexture CommandKind = "texture"
	CmdSetView       CommandKind = "view"
)

// Command is a user request, delivered from the UI or the control server.
type Command struct {
	Kind CommandKind
	Arg  string
}

func (c Command) String() string {
	return fmt.Sprintf("%s(%s)", c.Kind, c.Arg)
}

// ParseCommand builds a command from its kind name and argument.
func ParseCommand(kind, arg string) (Command, error) {
	switch k := CommandKind(kind); k {
	case CmdChangeLegs, CmdChangeTexture, CmdSetView:
		if arg == "" {
			return Command{}, fmt.Errorf("command %s: empty argument", kind)
		}
		return Command{Kind: k, Arg: arg}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", kind)
}

// SetView moves the camera to the named preset. Unknown names are ignored.
func SetView(st *State, name string) bool {
	if !camera.SetView(st.Camera, name) {
		logger.Debug("unknown view", zap.String("name", name))
		return false
	}
	st.emit(Event{Kind: EventViewChanged, Key: name})
	return true
}

// Apply dispatches cmd.
func Apply(st *State, cmd Command) {
	logger.Debug("command", zap.Stringer("cmd", cmd))
	switch cmd.Kind {
	case CmdChangeLegs:
		ChangeLegs(st, cmd.Arg)
	case CmdChangeTexture:
		ChangeTexture(st, cmd.Arg)
	case CmdSetView:
		SetView(st, cmd.Arg)
	default:
		logger.Warn("unknown command kind", zap.String("kind", string(cmd.Kind)))
	}
}
