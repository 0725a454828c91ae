package core

import (
	"github.com/atinylittleshell/gsuggest/pkg/gline"
	"github.com/atinylittleshell/gsuggest/pkg/suggest"
	"go.uber.org/zap"
)

// UserPrompter asks the user for one line of input with suggestions.
type UserPrompter interface {
	Prompt(
		prompt string,
		cfg suggest.Config,
		logger *zap.Logger,
		options gline.Options,
	) (string, error)
}

type DefaultUserPrompter struct{}

func (p DefaultUserPrompter) Prompt(
	prompt string,
	cfg suggest.Config,
	logger *zap.Logger,
	options gline.Options,
) (string, error) {
	return gline.Gline(prompt, cfg, logger, options)
}
