package scheduler

import (
	"context"
	"os"
	"slices"

	"github.com/ai-kana/kb/internal/core/domain"
)

// link runs pass on the calling goroutine. Links are never skipped.
func (sub *submission) link(ctx context.Context, pass domain.LinkPass) error {
	if !sub.opts.DryRun {
		_ = os.MkdirAll(pass.BuildDir, domain.OutputDirPerm)
	}

	sub.execute(ctx, job{
		kind:     domain.KindLinkPass,
		artifact: pass.OutputPath(),
		sources:  slices.Clone(pass.Files),
		cmdline:  pass.CommandLine(),
	})
	return ctx.Err()
}
