package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/rci/internal/types"
)

func TestToRelative(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "home", "user", "project")
	inside := filepath.Join(root, "src", "App.tsx")
	outside := filepath.Join(string(filepath.Separator), "other", "file.ts")

	assert.Equal(t, filepath.Join("src", "App.tsx"), ToRelative(inside, root))
	assert.Equal(t, outside, ToRelative(outside, root), "paths outside root stay absolute")
	assert.Equal(t, "src/App.tsx", ToRelative("src/App.tsx", root), "relative input passes through")
	assert.Equal(t, "", ToRelative("", root))
	assert.Equal(t, inside, ToRelative(inside, ""))
}

func TestToRelativeResultDoesNotMutateOriginal(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "proj")
	abs := filepath.Join(root, "src", "index.ts")
	original := &types.AnalysisResult{FilePath: abs}

	converted := ToRelativeResult(original, root)
	assert.Equal(t, filepath.Join("src", "index.ts"), converted.FilePath)
	assert.Equal(t, abs, original.FilePath)
}

func TestToRelativeResults(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "proj")
	results := []*types.AnalysisResult{
		{FilePath: filepath.Join(root, "a.ts")},
		{FilePath: filepath.Join(root, "nested", "b.tsx")},
	}

	converted := ToRelativeResults(results, root)
	assert.Equal(t, "a.ts", converted[0].FilePath)
	assert.Equal(t, filepath.Join("nested", "b.tsx"), converted[1].FilePath)

	assert.Nil(t, ToRelativeResult(nil, root))
	assert.Empty(t, ToRelativeResults(nil, root))
}
