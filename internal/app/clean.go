package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ai-kana/kb/internal/core/domain"
	"go.trai.ch/zerr"
)

// Clean removes every artifact recorded in the build record store, then the store itself.
func (a *App) Clean(_ context.Context) error {
	root, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	records, err := a.store.List(root)
	if err != nil {
		return err
	}

	var errs error
	for _, record := range records {
		path := record.Path()
		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanArtifact.Error()), "artifact", path))
			continue
		}
		a.logger.Info(fmt.Sprintf("removed %s", path))
	}

	if errs != nil {
		return errs
	}

	if err := a.store.Clear(root); err != nil {
		return err
	}
	a.logger.Info("removed build record store")
	return nil
}
