package app

import (
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/configurator"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// texturePicker asks the user for a fabric image and queues a texture
// change for it. The dialog runs off the loop goroutine; only the
// resulting command crosses back, through the inbox.
type texturePicker struct {
	open  func() (string, error)
	inbox chan<- configurator.Command
}

func newTexturePicker(inbox chan<- configurator.Command) *texturePicker {
	return &texturePicker{open: openTextureDialog, inbox: inbox}
}

func openTextureDialog() (string, error) {
	return dialog.File().
		Filter("Images", "png", "jpg", "jpeg", "bmp", "webp", "tga", "gif").
		Filter("All Files", "*").
		Title("Choose Fabric Texture").
		Load()
}

// Pick opens the dialog in the background.
func (p *texturePicker) Pick() {
	go p.pick()
}

func (p *texturePicker) pick() bool {
	path, err := p.open()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			logger.Warn("file dialog failed", zap.Error(err))
		}
		return false
	}

	cmd := configurator.Command{Kind: configurator.CmdChangeTexture, Arg: path}
	select {
	case p.inbox <- cmd:
		return true
	default:
		logger.Warn("command inbox full, dropping", zap.Stringer("command", cmd))
		return false
	}
}
