package cmd

import (
	"github.com/gobwas/glob"

	"github.com/ezerfernandes/mdplay/internal/mdcode"
)

type filterFunc func(lang string) bool

// filter matches block languages against glob patterns; "*" matches every
// block, including those without a language.
func filter(patterns []string) (filterFunc, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}

		globs = append(globs, g)
	}

	return func(lang string) bool {
		for _, g := range globs {
			if g.Match(lang) {
				return true
			}
		}

		return false
	}, nil
}

// selectBlocks keeps the blocks whose language passes the filter.
func selectBlocks(blocks mdcode.Blocks, filter filterFunc) mdcode.Blocks {
	selected := make(mdcode.Blocks, 0, len(blocks))

	for _, block := range blocks {
		if filter(block.Lang) {
			selected = append(selected, block)
		}
	}

	return selected
}
